package observability

import (
  "context"
  "os"
  "strconv"
  "strings"
  "sync"
  "time"

  "go.opentelemetry.io/otel"
  "go.opentelemetry.io/otel/attribute"
  "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
  "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
  "go.opentelemetry.io/otel/propagation"
  "go.opentelemetry.io/otel/sdk/resource"
  sdktrace "go.opentelemetry.io/otel/sdk/trace"
  semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

  "github.com/chefboard/chefboard-backend/internal/logger"
)

type OtelConfig struct {
  ServiceName string
  Environment string
  Version     string
}

var (
  otelOnce     sync.Once
  otelShutdown func(context.Context) error
)

func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
  otelOnce.Do(func() {
    if !otelEnabled() {
      return
    }
    serviceName := strings.TrimSpace(cfg.ServiceName)
    if serviceName == "" {
      serviceName = "chefboard"
    }
    res, err := resource.New(
      ctx,
      resource.WithAttributes(
        semconv.ServiceNameKey.String(serviceName),
        attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
        semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
      ),
    )
    if err != nil && log != nil {
      log.Warn("otel resource init failed (continuing)", "error", err)
    }

    exporter, expErr := buildTraceExporter(ctx, log)
    if expErr != nil && log != nil {
      log.Warn("otel exporter init failed (continuing)", "error", expErr)
    }
    var tp *sdktrace.TracerProvider
    if exporter != nil {
      tp = sdktrace.NewTracerProvider(
        sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
        sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(otelSampleRatio()))),
        sdktrace.WithResource(res),
      )
    } else {
      tp = sdktrace.NewTracerProvider(
        sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(otelSampleRatio()))),
        sdktrace.WithResource(res),
      )
    }
    otel.SetTracerProvider(tp)
    otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
      propagation.TraceContext{},
      propagation.Baggage{},
    ))
    otelShutdown = tp.Shutdown
    if log != nil {
      log.Info("otel tracing initialized", "service", serviceName, "endpoint", otelEndpoint())
    }
  })
  return otelShutdown
}

func buildTraceExporter(ctx context.Context, log *logger.Logger) (sdktrace.SpanExporter, error) {
  endpoint := otelEndpoint()
  if endpoint == "" {
    return stdouttrace.New(stdouttrace.WithPrettyPrint())
  }
  opts := []otlptracehttp.Option{
    otlptracehttp.WithEndpoint(endpoint),
  }
  if otelInsecure() {
    opts = append(opts, otlptracehttp.WithInsecure())
  }
  return otlptracehttp.New(ctx, opts...)
}

func otelEnabled() bool {
  v := strings.TrimSpace(strings.ToLower(os.Getenv("OTEL_ENABLED")))
  if v == "" {
    return false
  }
  b, err := strconv.ParseBool(v)
  if err != nil {
    return false
  }
  return b
}

func otelEndpoint() string {
  return strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
}

func otelInsecure() bool {
  v := strings.TrimSpace(strings.ToLower(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")))
  b, err := strconv.ParseBool(v)
  if err != nil {
    return false
  }
  return b
}

func otelSampleRatio() float64 {
  v := strings.TrimSpace(os.Getenv("OTEL_SAMPLE_RATIO"))
  if v == "" {
    return 1.0
  }
  f, err := strconv.ParseFloat(v, 64)
  if err != nil || f < 0 || f > 1 {
    return 1.0
  }
  return f
}
