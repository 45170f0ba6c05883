package stream

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/datakit-go/datastream/logger"
	"github.com/datakit-go/datastream/observability"
	"github.com/datakit-go/datastream/record"
)

// trackedIter moves the owning stream through its lifecycle phases and
// feeds the attached instruments on close.
type trackedIter struct {
	ctx     context.Context
	stream  *Stream
	inner   Iterator
	span    trace.Span
	count   int64
	started time.Time
	done    bool
	closed  bool
}

func newTrackedIter(ctx context.Context, s *Stream, inner Iterator) *trackedIter {
	if s.metrics != nil {
		s.metrics.RecordIteratorOpen(ctx, s.Source())
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanIterate, trace.WithAttributes(
		attribute.String(observability.AttrStreamID, s.id),
		attribute.String(observability.AttrSource, s.Source()),
	))
	return &trackedIter{ctx: ctx, stream: s, inner: inner, span: span, started: time.Now()}
}

func (it *trackedIter) Next(ctx context.Context) (*record.Record, bool, error) {
	if it.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		it.done = true
		it.stream.phase = StateFailed
		return nil, false, err
	}
	rec, ok, err := it.inner.Next(ctx)
	if err != nil {
		it.done = true
		it.stream.phase = StateFailed
		it.span.RecordError(err)
		if it.stream.metrics != nil {
			it.stream.metrics.RecordError(ctx, "iterate", it.stream.Source())
		}
		return nil, false, err
	}
	if !ok {
		it.done = true
		it.stream.phase = StateExhausted
		return nil, false, nil
	}
	it.count++
	return rec, true, nil
}

func (it *trackedIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	s := it.stream
	if s.metrics != nil {
		s.metrics.RecordIteratorClose(it.ctx, s.Source(), it.count, time.Since(it.started))
	}
	s.log.Debug("stream iteration closed", logger.Fields(
		logger.FieldStreamID, s.id,
		logger.FieldSource, s.Source(),
		logger.FieldRecords, it.count,
		logger.FieldStatus, s.phase.String(),
	))
	if s.phase == StateIterating {
		s.phase = StateCreated
	}
	it.span.SetAttributes(
		attribute.Int64(observability.AttrRecords, it.count),
		attribute.String(observability.AttrStatus, s.phase.String()),
	)
	it.span.End()
	return it.inner.Close()
}

// Collect materializes the whole stream into memory. The iterator is
// closed before returning, also on error.
func (s *Stream) Collect(ctx context.Context) ([]*record.Record, error) {
	iter, err := s.Iterate(ctx)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*record.Record
	for {
		rec, ok, err := iter.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, rec)
	}
}

// Head returns at most n records from the front of the stream without
// consuming more than it needs.
func (s *Stream) Head(ctx context.Context, n int) ([]*record.Record, error) {
	return s.Take(n).Collect(ctx)
}

// ForEach pulls every record through fn, stopping on the first error.
func (s *Stream) ForEach(ctx context.Context, fn func(ctx context.Context, rec *record.Record) error) error {
	iter, err := s.Iterate(ctx)
	if err != nil {
		return err
	}
	defer iter.Close()

	for {
		rec, ok, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, rec); err != nil {
			return err
		}
	}
}

// Drain consumes the stream for its side effects and returns the
// number of records yielded.
func (s *Stream) Drain(ctx context.Context) (int64, error) {
	iter, err := s.Iterate(ctx)
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var n int64
	for {
		_, ok, err := iter.Next(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}
