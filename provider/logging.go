package provider

import (
	"context"
	"time"

	"github.com/datakit-go/datastream/logger"
)

// WithLogging returns a Middleware that logs iterator lifecycle:
// open, and on close the record count and traversal duration.
func WithLogging(log *logger.Logger) Middleware {
	return func(inner Source) Source {
		return &loggingSource{inner: inner, log: log}
	}
}

type loggingSource struct {
	inner Source
	log   *logger.Logger
}

func (s *loggingSource) Name() string                         { return s.inner.Name() }
func (s *loggingSource) IsAvailable(ctx context.Context) bool { return s.inner.IsAvailable(ctx) }

func (s *loggingSource) Records(ctx context.Context) (Iterator[Raw], error) {
	iter, err := s.inner.Records(ctx)
	if err != nil {
		s.log.Error("source open failed", logger.ErrorFields("records", err))
		return nil, err
	}
	s.log.Debug("source opened", map[string]interface{}{
		logger.FieldSource: s.inner.Name(),
	})
	return &loggingIter{
		inner:  iter,
		log:    s.log,
		source: s.inner.Name(),
		start:  time.Now(),
	}, nil
}

type loggingIter struct {
	inner  Iterator[Raw]
	log    *logger.Logger
	source string
	start  time.Time
	count  int64
}

func (it *loggingIter) Next(ctx context.Context) (Raw, bool, error) {
	raw, ok, err := it.inner.Next(ctx)
	if err != nil {
		it.log.Error("source pull failed", map[string]interface{}{
			logger.FieldSource:  it.source,
			logger.FieldRecords: it.count,
			logger.FieldError:   err.Error(),
		})
		return nil, false, err
	}
	if ok {
		it.count++
	}
	return raw, ok, nil
}

func (it *loggingIter) Close() error {
	err := it.inner.Close()
	it.log.Debug("source closed", map[string]interface{}{
		logger.FieldSource:   it.source,
		logger.FieldRecords:  it.count,
		logger.FieldDuration: time.Since(it.start).Milliseconds(),
	})
	return err
}
