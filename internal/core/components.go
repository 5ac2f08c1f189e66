package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dashboard/internal/activity"
	c "dashboard/internal/cache"
	"dashboard/internal/configuration"
	"dashboard/internal/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger replaces the global logger with a production logger at level.
func NewLogger(level string) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		zap.L().Warn("Unknown log level, keeping info", zap.String("level", level))
		parsed = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parsed)

	logger, err := config.Build()
	if err != nil {
		zap.L().Fatal("Failed to build logger", zap.Error(err))
	}
	zap.ReplaceGlobals(logger)
}

func NewCache(config models.CacheConfiguration) c.ICache {
	var (
		cache *c.RueidisCache
		err   error
	)

	switch config.Type {
	case configuration.CacheRedis:
		cache, err = c.NewRedisCache(*config.Redis)
	case configuration.CacheValkey:
		cache, err = c.NewValkeyCache(*config.Valkey)
	default:
		zap.L().Fatal("Unsupported cache type", zap.String("type", config.Type))
	}

	if err != nil {
		zap.L().Fatal("Failed to connect to cache", zap.String("type", config.Type), zap.Error(err))
	}
	return cache
}

func NewActivityLogger(config models.ActivityConfiguration) activity.IActivityLogger {
	switch config.Type {
	case configuration.ActivityFilesystem:
		return activity.NewFilesystemClient(config)
	default:
		zap.L().Fatal("Unsupported activity type", zap.String("type", config.Type))
		return nil
	}
}

// NewTracerProvider installs the global OTLP tracer provider. The returned
// function flushes and stops it; it is a no-op when telemetry is disabled.
func NewTracerProvider(ctx context.Context, config models.TelemetryConfiguration) (func(context.Context) error, error) {
	if !config.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(config.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", config.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	zap.L().Info("Tracing enabled", zap.String("endpoint", config.Endpoint))
	return provider.Shutdown, nil
}

// ServerSpanName names incoming request spans after method and path.
var ServerSpanName = otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
})
