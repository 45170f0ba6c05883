// Package observability provides OpenTelemetry tracing and metrics
// integration for datastream.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("loader"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanLoad)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("loader"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("loader"))
//
// The Metrics instruments cover the stream lifecycle: records yielded,
// batches emitted, open iterators, traversal durations, and errors.
package observability
