// Package telemetry configures OpenTelemetry tracing for outgoing API calls.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// DefaultServiceName is reported when no service name is configured.
	DefaultServiceName = "studentdesk"

	instrumentationName = "studentdesk/api"
)

// Provider hands out the tracer used by the API client.
// A nil *Provider is valid and yields a no-op tracer.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// NewProvider creates an OTLP/HTTP tracer provider if endpoint is non-empty.
// Returns nil (tracing disabled) when endpoint is empty.
func NewProvider(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
	}, nil
}

// Tracer returns the API tracer, or a no-op tracer when tracing is disabled.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return p.tracer
}

// Shutdown flushes pending spans and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
