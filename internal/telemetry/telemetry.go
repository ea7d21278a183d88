// Package telemetry wires OpenTelemetry for gapfill runs.
//
// Telemetry is off unless GAPFILL_OTEL_ENABLED=true. When on:
//
//	GAPFILL_OTEL_STDOUT=true          day spans and counters to stderr
//	OTEL_EXPORTER_OTLP_ENDPOINT=...   counters over OTLP/HTTP
package telemetry

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	scope          = "github.com/example/gapfill"
	exportInterval = 30 * time.Second
)

// Settings selects the exporters. The zero value disables telemetry.
type Settings struct {
	Enabled  bool
	Stdout   bool
	Endpoint string
}

// SettingsFromEnv reads the exporter selection from the environment.
func SettingsFromEnv() Settings {
	return Settings{
		Enabled:  os.Getenv("GAPFILL_OTEL_ENABLED") == "true",
		Stdout:   os.Getenv("GAPFILL_OTEL_STDOUT") == "true",
		Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

var shutdownFns []func(context.Context) error

// Init installs the global tracer and meter providers. Disabled settings
// install no-op providers.
func Init(ctx context.Context, s Settings, version string) error {
	if !s.Enabled {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}

	res := resource.NewSchemaless(
		semconv.ServiceName("gapfill"),
		semconv.ServiceVersion(version),
	)

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if s.Stdout {
		spans, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return fmt.Errorf("telemetry: stdout spans: %w", err)
		}
		counters, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
		if err != nil {
			return fmt.Errorf("telemetry: stdout metrics: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spans))
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(counters, sdkmetric.WithInterval(exportInterval))))
	}

	if s.Endpoint != "" {
		exp, err := otlpExporter(ctx, s.Endpoint)
		if err != nil {
			return fmt.Errorf("telemetry: otlp metrics: %w", err)
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(exportInterval))))
	}

	tp := sdktrace.NewTracerProvider(traceOpts...)
	mp := sdkmetric.NewMeterProvider(metricOpts...)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, tp.Shutdown, mp.Shutdown)
	return nil
}

// otlpExporter accepts a full URL or a bare host:port, which is sent
// without TLS.
func otlpExporter(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
	if strings.Contains(endpoint, "://") {
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(endpoint))
	}
	return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(endpoint), otlpmetrichttp.WithInsecure())
}

// Tracer returns the gapfill tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(scope)
}

// Meter returns the gapfill meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(scope)
}

// Shutdown flushes and stops the providers installed by Init.
func Shutdown(ctx context.Context) {
	for _, fn := range shutdownFns {
		_ = fn(ctx)
	}
	shutdownFns = nil
}
