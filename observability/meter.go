package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/datakit-go/datastream/logger"
	"github.com/datakit-go/datastream/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name reported for this process.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the OpenTelemetry instruments for stream observability.
type Metrics struct {
	recordsTotal    metric.Int64Counter
	batchesTotal    metric.Int64Counter
	iteratorsActive metric.Int64UpDownCounter
	iterateDuration metric.Float64Histogram
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	recordsTotal, err := meter.Int64Counter("stream.records.total",
		metric.WithDescription("Total records yielded by streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.records.total counter: %w", err)
	}

	batchesTotal, err := meter.Int64Counter("stream.batches.total",
		metric.WithDescription("Total batches emitted by streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.batches.total counter: %w", err)
	}

	iteratorsActive, err := meter.Int64UpDownCounter("stream.iterators.active",
		metric.WithDescription("Number of currently open provider iterators"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.iterators.active gauge: %w", err)
	}

	iterateDuration, err := meter.Float64Histogram("stream.iterate.duration",
		metric.WithDescription("Wall time of full stream traversals in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.iterate.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("stream.errors.total",
		metric.WithDescription("Total errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.errors.total counter: %w", err)
	}

	return &Metrics{
		recordsTotal:    recordsTotal,
		batchesTotal:    batchesTotal,
		iteratorsActive: iteratorsActive,
		iterateDuration: iterateDuration,
		errorTotal:      errorTotal,
	}, nil
}

// RecordIteratorOpen increments the active iterator count for a source.
func (m *Metrics) RecordIteratorOpen(ctx context.Context, source string) {
	m.iteratorsActive.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordIteratorClose decrements active iterators and records the
// traversal duration and record count.
func (m *Metrics) RecordIteratorClose(ctx context.Context, source string, records int64, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.iteratorsActive.Add(ctx, -1, attrs)
	m.recordsTotal.Add(ctx, records, attrs)
	m.iterateDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordBatches records batches emitted by a stream.
func (m *Metrics) RecordBatches(ctx context.Context, source string, batches int64) {
	m.batchesTotal.Add(ctx, batches, metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
