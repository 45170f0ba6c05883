package stream

import (
	"context"
	"fmt"

	"github.com/datakit-go/datastream/errors"
	"github.com/datakit-go/datastream/provider"
	"github.com/datakit-go/datastream/record"
)

// rebase roots a child stream at a derived provider source, keeping the
// pipeline delegable for further operators.
func (s *Stream) rebase(src provider.Source) *Stream {
	out := s.derive()
	out.source = src
	out.pristine = true
	out.create = func(ctx context.Context, st *pipeState) (Iterator, error) {
		iter, err := src.Records(ctx)
		if err != nil {
			return nil, errors.ProviderFailure(src.Name(), err)
		}
		return &adaptIter{inner: iter, source: src.Name(), state: st}, nil
	}
	return out
}

// wrap derives a child stream whose iterator decorates the receiver's.
// After wrapping, the chain is record-level and no longer delegable.
func (s *Stream) wrap(fn func(Iterator) Iterator) *Stream {
	out := s.derive()
	out.create = func(ctx context.Context, st *pipeState) (Iterator, error) {
		inner, err := s.create(ctx, st)
		if err != nil {
			return nil, err
		}
		return fn(inner), nil
	}
	return out
}

// failing derives a child stream that reports an argument error when
// iteration starts. Operator arguments are validated lazily so chain
// construction itself never fails.
func (s *Stream) failing(err error) *Stream {
	out := s.derive()
	out.create = func(context.Context, *pipeState) (Iterator, error) {
		return nil, err
	}
	return out
}

// Take returns a stream yielding at most n records. A zero n yields an
// empty stream; n larger than the sequence yields everything.
func (s *Stream) Take(n int) *Stream {
	if n < 0 {
		return s.failing(errors.InvalidInput("take", fmt.Sprintf("count must be non-negative, got %d", n)))
	}
	if s.pristine && s.source != nil {
		if ts, ok := s.source.(provider.TakeSource); ok {
			return s.rebase(ts.Take(n))
		}
	}
	return s.wrap(func(inner Iterator) Iterator {
		return &takeIter{inner: inner, remaining: n}
	})
}

// Skip returns a stream that discards the first n records. Skipping
// past the end yields an empty stream.
func (s *Stream) Skip(n int) *Stream {
	if n < 0 {
		return s.failing(errors.InvalidInput("skip", fmt.Sprintf("count must be non-negative, got %d", n)))
	}
	if s.pristine && s.source != nil {
		if ss, ok := s.source.(provider.SkipSource); ok {
			return s.rebase(ss.Skip(n))
		}
	}
	return s.wrap(func(inner Iterator) Iterator {
		return &skipIter{inner: inner, skip: n}
	})
}

// Shard returns the index-th of numShards interleaved partitions. The
// shards of a sequence are disjoint and their union, in order, is the
// whole sequence.
func (s *Stream) Shard(numShards, index int) *Stream {
	if numShards < 1 {
		return s.failing(errors.InvalidInput("shard", fmt.Sprintf("shard count must be positive, got %d", numShards)))
	}
	if index < 0 || index >= numShards {
		return s.failing(errors.InvalidInput("shard", fmt.Sprintf("index %d out of range [0,%d)", index, numShards)))
	}
	if s.pristine && s.source != nil {
		if sh, ok := s.source.(provider.ShardSource); ok {
			return s.rebase(sh.Shard(numShards, index))
		}
	}
	return s.wrap(func(inner Iterator) Iterator {
		return &shardIter{inner: inner, numShards: numShards, index: index}
	})
}

// Filter returns a stream of the records pred accepts. The predicate
// sees records as the consumer would: adapted and transformed.
func (s *Stream) Filter(pred func(*record.Record) bool) *Stream {
	if pred == nil {
		return s.failing(errors.InvalidInput("filter", "predicate must not be nil"))
	}
	return s.wrap(func(inner Iterator) Iterator {
		return &filterIter{inner: inner, pred: pred}
	})
}

// Map returns a stream whose records are rewritten by fn. Fields named
// in removeFields are deleted from each result; missing names are
// ignored. Unlike the transform slot, mapped functions stack: each Map
// adds a stage.
func (s *Stream) Map(fn Transform, removeFields ...string) *Stream {
	if fn == nil {
		return s.failing(errors.InvalidInput("map", "function must not be nil"))
	}
	return s.wrap(func(inner Iterator) Iterator {
		return &mapIter{inner: inner, fn: fn, remove: removeFields}
	})
}

// --- operator iterators ---

type takeIter struct {
	inner     Iterator
	remaining int
}

func (it *takeIter) Next(ctx context.Context) (*record.Record, bool, error) {
	if it.remaining <= 0 {
		return nil, false, nil
	}
	rec, ok, err := it.inner.Next(ctx)
	if err != nil || !ok {
		it.remaining = 0
		return nil, false, err
	}
	it.remaining--
	return rec, true, nil
}

func (it *takeIter) Close() error { return it.inner.Close() }

type skipIter struct {
	inner   Iterator
	skip    int
	skipped bool
}

func (it *skipIter) Next(ctx context.Context) (*record.Record, bool, error) {
	if !it.skipped {
		it.skipped = true
		for i := 0; i < it.skip; i++ {
			_, ok, err := it.inner.Next(ctx)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
		}
	}
	return it.inner.Next(ctx)
}

func (it *skipIter) Close() error { return it.inner.Close() }

type shardIter struct {
	inner     Iterator
	numShards int
	index     int
	pos       int
}

func (it *shardIter) Next(ctx context.Context) (*record.Record, bool, error) {
	for {
		rec, ok, err := it.inner.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		pos := it.pos
		it.pos++
		if pos%it.numShards == it.index {
			return rec, true, nil
		}
	}
}

func (it *shardIter) Close() error { return it.inner.Close() }

type filterIter struct {
	inner Iterator
	pred  func(*record.Record) bool
}

func (it *filterIter) Next(ctx context.Context) (*record.Record, bool, error) {
	for {
		rec, ok, err := it.inner.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		if it.pred(rec) {
			return rec, true, nil
		}
	}
}

func (it *filterIter) Close() error { return it.inner.Close() }

type mapIter struct {
	inner  Iterator
	fn     Transform
	remove []string
}

func (it *mapIter) Next(ctx context.Context) (*record.Record, bool, error) {
	rec, ok, err := it.inner.Next(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	rec, err = it.fn(rec)
	if err != nil {
		return nil, false, err
	}
	for _, name := range it.remove {
		rec.Delete(name)
	}
	return rec, true, nil
}

func (it *mapIter) Close() error { return it.inner.Close() }
