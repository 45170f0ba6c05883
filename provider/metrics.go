package provider

import (
	"context"
	"time"

	"github.com/datakit-go/datastream/observability"
)

// WithMetrics returns a Middleware that records iterator metrics using
// the datastream observability instruments: open iterators, records
// pulled, traversal durations, and pull errors.
func WithMetrics(metrics *observability.Metrics) Middleware {
	return func(inner Source) Source {
		return &metricsSource{inner: inner, metrics: metrics}
	}
}

type metricsSource struct {
	inner   Source
	metrics *observability.Metrics
}

func (s *metricsSource) Name() string                         { return s.inner.Name() }
func (s *metricsSource) IsAvailable(ctx context.Context) bool { return s.inner.IsAvailable(ctx) }

func (s *metricsSource) Records(ctx context.Context) (Iterator[Raw], error) {
	iter, err := s.inner.Records(ctx)
	if err != nil {
		s.metrics.RecordError(ctx, "open", s.inner.Name())
		return nil, err
	}
	s.metrics.RecordIteratorOpen(ctx, s.inner.Name())
	return &metricsIter{
		inner:   iter,
		metrics: s.metrics,
		source:  s.inner.Name(),
		start:   time.Now(),
	}, nil
}

type metricsIter struct {
	inner   Iterator[Raw]
	metrics *observability.Metrics
	source  string
	start   time.Time
	count   int64
	closed  bool
}

func (it *metricsIter) Next(ctx context.Context) (Raw, bool, error) {
	raw, ok, err := it.inner.Next(ctx)
	if err != nil {
		it.metrics.RecordError(ctx, "pull", it.source)
		return nil, false, err
	}
	if ok {
		it.count++
	}
	return raw, ok, nil
}

func (it *metricsIter) Close() error {
	err := it.inner.Close()
	if !it.closed {
		it.closed = true
		it.metrics.RecordIteratorClose(context.Background(), it.source, it.count, time.Since(it.start))
	}
	return err
}
