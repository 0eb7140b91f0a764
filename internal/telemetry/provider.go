// Package telemetry sets up OpenTelemetry tracing and metrics for the panel.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Config struct {
	ServiceName    string  `json:",default=light-panel" yaml:"service_name"`
	ServiceVersion string  `json:",optional" yaml:"service_version"`
	Environment    string  `json:",default=development" yaml:"environment"`
	CollectorURL   string  `json:",optional" yaml:"collector_url"`
	Insecure       bool    `json:",default=true" yaml:"insecure"`
	EnableTracing  bool    `json:",optional" yaml:"enable_tracing"`
	EnableMetrics  bool    `json:",optional" yaml:"enable_metrics"`
	SamplingRatio  float64 `json:",default=1" yaml:"sampling_ratio"`
}

type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Metrics        *APIMetrics
}

// NewProvider installs the global tracer and meter providers. With both
// tracing and metrics disabled it only builds the (no-op backed) instruments.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{}
	if cfg.EnableTracing || cfg.EnableMetrics {
		if cfg.CollectorURL == "" {
			return nil, errors.New("telemetry: collector url is required")
		}
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(cfg.ServiceName),
				semconv.ServiceVersionKey.String(cfg.ServiceVersion),
				semconv.DeploymentEnvironmentKey.String(cfg.Environment),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create resource: %w", err)
		}
		if cfg.EnableTracing {
			if p.TracerProvider, err = initTracing(ctx, res, cfg); err != nil {
				return nil, fmt.Errorf("failed to init tracing: %w", err)
			}
			otel.SetTracerProvider(p.TracerProvider)
		}
		if cfg.EnableMetrics {
			if p.MeterProvider, err = initMetrics(ctx, res, cfg); err != nil {
				return nil, fmt.Errorf("failed to init metrics: %w", err)
			}
			otel.SetMeterProvider(p.MeterProvider)
		}
		logger.Info("telemetry enabled", "collector", cfg.CollectorURL, "tracing", cfg.EnableTracing, "metrics", cfg.EnableMetrics)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	var err error
	p.Metrics, err = NewAPIMetrics(otel.Meter("light-panel"))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	return p, nil
}

func initTracing(ctx context.Context, res *resource.Resource, cfg Config) (*trace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.CollectorURL), otlptracehttp.WithURLPath("/v1/traces")}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exp, trace.WithBatchTimeout(5*time.Second), trace.WithMaxExportBatchSize(512)),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SamplingRatio))),
	), nil
}

func initMetrics(ctx context.Context, res *resource.Resource, cfg Config) (*metric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.CollectorURL), otlpmetrichttp.WithURLPath("/v1/metrics")}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exp, metric.WithInterval(30*time.Second))),
	), nil
}

func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown TracerProvider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown MeterProvider: %w", err))
		}
	}
	return errors.Join(errs...)
}
