package resolver_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/HendryAvila/keysync/internal/resolver"
)

func TestBuild_RecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := newFixtureEngine(t, resolver.WithTracer(tp.Tracer("test")))
	require.NoError(t, e.Build(context.Background()))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "resolver.build", spans[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	require.Equal(t, e.Statistics().BuildID, attrs["resolver.build_id"].AsString())
	require.Equal(t, int64(e.Statistics().LogicalMappings), attrs["resolver.mappings"].AsInt64())
}

func TestBuild_LogsCollisions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	root := t.TempDir()
	writeTree(t, root, registryKey, "[standards .md]/9. archive standards/registry_standard.md")
	e, err := resolver.New(root, resolver.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, e.Build(context.Background()))

	out := buf.String()
	require.Contains(t, out, "level=WARN msg=\"logical address collision\"")
	require.Contains(t, out, "address=abstract://standard:registry")
	require.Contains(t, out, "level=INFO msg=\"registry built\"")
}
