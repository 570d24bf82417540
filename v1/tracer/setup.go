package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// Tracer wraps the OpenTelemetry TracerProvider and offers span helpers.
// It is safe for concurrent use.
type Tracer struct {
	provider *trace.TracerProvider
	logger   logger.Logger
}

// NewClient creates the tracer provider and installs it globally together
// with the W3C trace-context and baggage propagators. Extra provider options
// (e.g. a span processor in tests) are appended.
func NewClient(cfg Config, log logger.Logger, opts ...trace.TracerProviderOption) (*Tracer, error) {
	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.EndpointURL != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpointURL(cfg.EndpointURL))
		}
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("cannot initiate trace exporter: %w", err)
		}
		options = append(options, trace.WithBatcher(exporter))
		log.Info("trace export enabled", nil, map[string]interface{}{"endpoint": cfg.EndpointURL})
	}

	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))
	options = append(options, opts...)

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	return &Tracer{provider: tp, logger: log}, nil
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

var propagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
