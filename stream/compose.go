package stream

import "github.com/datakit-go/datastream/record"

// Op is a reusable pipeline stage. Ops are plain functions over
// streams, so composing them is associative and building one is free
// of side effects until the resulting stream is iterated.
type Op func(*Stream) *Stream

// Pipe applies ops left to right: s.Pipe(a, b) is b(a(s)).
func (s *Stream) Pipe(ops ...Op) *Stream {
	out := s
	for _, op := range ops {
		out = op(out)
	}
	return out
}

// Compose fuses ops into one, applied left to right. An empty Compose
// is the identity op.
func Compose(ops ...Op) Op {
	return func(s *Stream) *Stream {
		return s.Pipe(ops...)
	}
}

// TakeOp returns an Op limiting the stream to n records.
func TakeOp(n int) Op {
	return func(s *Stream) *Stream { return s.Take(n) }
}

// SkipOp returns an Op discarding the first n records.
func SkipOp(n int) Op {
	return func(s *Stream) *Stream { return s.Skip(n) }
}

// ShuffleOp returns an Op randomizing record order.
func ShuffleOp(seed int64, bufferSize int) Op {
	return func(s *Stream) *Stream { return s.Shuffle(seed, bufferSize) }
}

// BatchOp returns an Op collating records into batches of size.
func BatchOp(size int, dropLast bool) Op {
	return func(s *Stream) *Stream { return s.Batch(size, dropLast) }
}

// ShardOp returns an Op selecting one interleaved partition.
func ShardOp(numShards, index int) Op {
	return func(s *Stream) *Stream { return s.Shard(numShards, index) }
}

// FilterOp returns an Op keeping the records pred accepts.
func FilterOp(pred func(*record.Record) bool) Op {
	return func(s *Stream) *Stream { return s.Filter(pred) }
}

// MapOp returns an Op rewriting records through fn.
func MapOp(fn Transform, removeFields ...string) Op {
	return func(s *Stream) *Stream { return s.Map(fn, removeFields...) }
}

// TransformOp returns an Op installing fn as the per-record transform.
func TransformOp(fn Transform) Op {
	return func(s *Stream) *Stream { return s.WithTransform(fn) }
}

// FormatOp returns an Op switching the record format.
func FormatOp(f Format) Op {
	return func(s *Stream) *Stream { return s.WithFormat(f) }
}
