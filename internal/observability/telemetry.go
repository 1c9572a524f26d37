// Package observability configures OpenTelemetry tracing.
// With tracing disabled every helper works against a no-op tracer.
package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Config struct {
	Enabled     bool
	Endpoint    string  // localhost:4318
	ServiceName string  // productcat
	Version     string  // reported as service.version
	SampleRate  float64 // 0.0 to 1.0
}

type provider struct {
	tp      *sdktrace.TracerProvider
	tracer  trace.Tracer
	enabled bool
}

var (
	mu             sync.RWMutex
	globalProvider = &provider{tracer: noop.NewTracerProvider().Tracer("")}
)

// Init installs the global tracer provider. With cfg.Enabled false it
// installs a no-op tracer and returns nil.
func Init(ctx context.Context, cfg Config) error {
	if !cfg.Enabled {
		setProvider(&provider{tracer: noop.NewTracerProvider().Tracer("")})
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("create OTLP exporter: %w", err)
	}

	tp := newTracerProvider(exporter, res, cfg.SampleRate)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	setProvider(&provider{
		tp:      tp,
		tracer:  tp.Tracer(cfg.ServiceName),
		enabled: true,
	})
	return nil
}

// InitWithExporter installs a provider that sends spans to exporter
// synchronously. Used by tests to capture spans.
func InitWithExporter(serviceName string, exporter sdktrace.SpanExporter) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	setProvider(&provider{
		tp:      tp,
		tracer:  tp.Tracer(serviceName),
		enabled: true,
	})
}

func newTracerProvider(exporter sdktrace.SpanExporter, res *resource.Resource, sampleRate float64) *sdktrace.TracerProvider {
	sampler := sdktrace.AlwaysSample()
	if sampleRate < 1.0 && sampleRate >= 0 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
}

func setProvider(p *provider) {
	mu.Lock()
	globalProvider = p
	mu.Unlock()
}

func current() *provider {
	mu.RLock()
	defer mu.RUnlock()
	return globalProvider
}

// Shutdown flushes pending spans and stops the provider.
func Shutdown(ctx context.Context) error {
	p := current()
	if p.tp == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.tp.Shutdown(ctx)
}

// Tracer returns the global tracer
func Tracer() trace.Tracer {
	return current().tracer
}

// Enabled returns whether tracing is enabled
func Enabled() bool {
	return current().enabled
}
