package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/datakit-go/datastream/version"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.ServiceVersion != version.Version {
		t.Errorf("expected ServiceVersion %q, got %q", version.Version, cfg.ServiceVersion)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %s", cfg.Interval)
	}
	if cfg.ServiceVersion != version.Version {
		t.Errorf("expected ServiceVersion %q, got %q", version.Version, cfg.ServiceVersion)
	}
}

func TestNewMetricsOnNoopMeter(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatal(err)
	}

	// Instruments on a noop meter must accept recordings without panicking.
	ctx := context.Background()
	metrics.RecordIteratorOpen(ctx, "memory")
	metrics.RecordIteratorClose(ctx, "memory", 100, 20*time.Millisecond)
	metrics.RecordBatches(ctx, "memory", 10)
	metrics.RecordError(ctx, "PROVIDER_FAILURE", "stream")
}

func TestStartSpanWithRecorder(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(sdktrace.NewTracerProvider())

	ctx, span := StartSpan(context.Background(), SpanIterate)
	SetSpanError(ctx, context.DeadlineExceeded)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != SpanIterate {
		t.Errorf("span name = %s, want %s", spans[0].Name(), SpanIterate)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected a recorded error event on the span")
	}
}
