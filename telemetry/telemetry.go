// Package telemetry provides OpenTelemetry tracing for game sessions.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "cueva"
	serviceVersion = "1.0.0"

	// EndpointEnv turns tracing on when set
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Setup initializes OpenTelemetry with the OTLP HTTP exporter when
// OTEL_EXPORTER_OTLP_ENDPOINT is set. Headers and other options come from the
// standard OTEL_* environment variables. Without an endpoint it installs
// nothing and returns a no-op shutdown.
//
// The returned shutdown flushes pending spans and should run on exit.
func Setup(ctx context.Context) (shutdown func(context.Context) error, err error) {
	if os.Getenv(EndpointEnv) == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// newResource describes this process without merging resource.Default(),
// whose schema URL may conflict with ours
func newResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
}

// Tracer returns a named tracer for the given component
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("cueva/" + name)
}

// NoopTracer returns a tracer that records nothing
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("cueva/noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
