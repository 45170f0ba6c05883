// Package stream provides lazy, pull-based pipelines over dataset
// provider sources.
//
// # Overview
//
// A Stream describes a sequence of records without holding any of
// them. Operators (Take, Skip, Shuffle, Batch, Shard, Filter, Map)
// return new streams and do no work; records move only when a
// terminal runs. Because streams are immutable pipelines rather than
// cursors, the same stream can seed any number of independent chains:
//
//	base := stream.FromSource(src)
//	train := base.Shard(4, 0).Shuffle(42, 1000).Batch(32, false)
//	probe := base.Take(10)
//
//	records, err := probe.Collect(ctx)
//
// # Provider delegation
//
// While a chain consists only of sequence-level operators, each
// operator asks the underlying source for a native implementation
// (for example a file source that seeks instead of discarding). The
// first record-level stage ends delegation; from there generic
// iterator wrappers apply.
//
// # Transform slot and format
//
// Every stream carries one per-record transform applied after value
// adaptation and before the consumer. WithTransform and WithFormat
// derive a reconfigured stream; SetTransform and SetFormat reconfigure
// in place, visible to every stream sharing the settings.
//
// # Errors
//
// Operator argument errors surface when iteration starts, as
// INVALID_INPUT. Failures inside a provider surface as
// PROVIDER_FAILURE with the cause preserved. Exhaustion is never an
// error: iterators report it by returning false.
package stream
