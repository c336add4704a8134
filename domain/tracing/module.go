// Package tracing installs the process-wide OTel TracerProvider and the echo
// request middleware. Spans are created through pkg/tracing.
package tracing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/version"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var Module = fx.Module("tracing",
	fx.Provide(NewTracerProvider),
	fx.Invoke(RegisterTracingLifecycle),
	fx.Invoke(RegisterEchoMiddleware),
)

// Provider holds the SDK provider. SDK is nil when OTEL_EXPORTER_OTLP_ENDPOINT is unset.
type Provider struct {
	SDK *sdktrace.TracerProvider
}

// NewTracerProvider builds and globally registers the TracerProvider.
// Without an endpoint the no-op provider is installed.
func NewTracerProvider(cfg *config.Config, log *slog.Logger) (*Provider, error) {
	log = log.With(logger.Scope("tracing"))
	tc := cfg.Tracing

	if !tc.Enabled() {
		log.Info("tracing disabled")
		otel.SetTracerProvider(noop.NewTracerProvider())
		return &Provider{}, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(tc.Endpoint)}
	if tc.Insecure() {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(tc.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(tc.Headers))
	}
	exp, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(context.Background(),
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(
			semconv.ServiceName(tc.ServiceName),
			semconv.ServiceVersion(version.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithFromEnv(),
	)
	if err != nil {
		log.Warn("resource detection failed", logger.Error(err))
		res = resource.Empty()
	}

	sampler := sdktrace.AlwaysSample()
	if rate := tc.Rate(); rate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)

	log.Info("tracing enabled",
		slog.String("endpoint", tc.Endpoint),
		slog.String("service", tc.ServiceName),
		slog.Float64("sampling_rate", tc.Rate()),
	)
	return &Provider{SDK: tp}, nil
}

// RegisterTracingLifecycle flushes pending spans on shutdown.
func RegisterTracingLifecycle(lc fx.Lifecycle, p *Provider) {
	if p.SDK == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.SDK.Shutdown(ctx)
		},
	})
}

// RegisterEchoMiddleware traces every request except probes, metrics
// scrapes and static assets.
func RegisterEchoMiddleware(e *echo.Echo, cfg *config.Config) {
	if !cfg.Tracing.Enabled() {
		return
	}
	e.Use(otelecho.Middleware(
		cfg.Tracing.ServiceName,
		otelecho.WithSkipper(untraced),
	))
}

func untraced(c echo.Context) bool {
	p := c.Request().URL.Path
	switch p {
	case "/health", "/healthz", "/ready", "/metrics", "/favicon.svg":
		return true
	}
	return strings.HasPrefix(p, "/static/")
}
