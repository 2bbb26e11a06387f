// Package tracing configures OpenTelemetry for keysync.
//
// Registry builds and MCP tool calls are traced. When tracing is disabled
// every tracer handed out is a no-op.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName     = "keysync"
	defaultEndpoint = "localhost:4317"
)

// Exporter names accepted in Config.Exporter.
const (
	ExporterStderr = "stderr"
	ExporterOTLP   = "otlp"
	ExporterNone   = "none"
)

// Config configures the tracing subsystem.
type Config struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter is "stderr", "otlp" or "none". "stdout" means stderr:
	// stdout carries the MCP transport.
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// Endpoint is the OTLP gRPC collector address.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// SampleRate is the fraction of root traces kept, 0 < r <= 1.
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// DefaultConfig returns tracing disabled, pretty-printing to stderr once
// enabled.
func DefaultConfig() Config {
	return Config{
		Exporter:   ExporterStderr,
		Endpoint:   defaultEndpoint,
		SampleRate: 1,
	}
}

// Provider owns the tracer provider and its shutdown.
type Provider struct {
	sdk    *sdktrace.TracerProvider
	tracer trace.Tracer
}

// NewProvider creates the trace provider for the given keysync version.
// A disabled config yields a no-op tracer.
func NewProvider(cfg Config, version string) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(serviceName)}, nil
	}

	exporter, err := newExporter(cfg, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	rate := cfg.SampleRate
	if rate <= 0 || rate > 1 {
		rate = 1
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	sdk := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(sdk)

	return &Provider{sdk: sdk, tracer: sdk.Tracer(serviceName)}, nil
}

// newExporter builds the span exporter cfg names. "none" returns nil: spans
// are sampled and ended but go nowhere.
func newExporter(cfg Config, stderr io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStderr, "stdout", "":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stderr exporter: %w", err)
		}
		return exp, nil
	case ExporterOTLP:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultEndpoint
		}
		exp, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		return exp, nil
	case ExporterNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported exporter %q", cfg.Exporter)
	}
}

// Tracer returns the configured tracer; never nil.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.sdk != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
