package tracing

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrToolName = "mcp.tool.name"
	AttrToolErr  = "mcp.tool.is_error"
)

// WrapTool returns handler wrapped in a span named "tool.<name>". A nil
// tracer returns handler unchanged.
func WrapTool(tracer trace.Tracer, name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	if tracer == nil {
		return handler
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := tracer.Start(ctx, "tool."+name, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		span.SetAttributes(attribute.String(AttrToolName, name))

		res, err := handler(ctx, req)
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case res != nil && res.IsError:
			span.SetAttributes(attribute.Bool(AttrToolErr, true))
			span.SetStatus(codes.Error, "tool returned an error result")
		default:
			span.SetStatus(codes.Ok, "")
		}
		return res, err
	}
}
