package stream

import (
	"context"
	"fmt"

	"github.com/datakit-go/datastream/errors"
	"github.com/datakit-go/datastream/observability"
	"github.com/datakit-go/datastream/record"
)

// Batch returns a stream of batch records, each collating up to size
// consecutive records into per-field list columns. The final batch may
// be smaller unless dropLast discards it. Batching counts the records
// the chain actually yields, so it composes with Filter and Take.
func (s *Stream) Batch(size int, dropLast bool) *Stream {
	if size < 1 {
		return s.failing(errors.InvalidInput("batch", fmt.Sprintf("size must be positive, got %d", size)))
	}
	return s.wrap(func(inner Iterator) Iterator {
		return &batchIter{
			inner:    inner,
			size:     size,
			dropLast: dropLast,
			metrics:  s.metrics,
			source:   s.Source(),
		}
	})
}

type batchIter struct {
	inner    Iterator
	size     int
	dropLast bool
	metrics  *observability.Metrics
	source   string
	done     bool
}

func (it *batchIter) Next(ctx context.Context) (*record.Record, bool, error) {
	if it.done {
		return nil, false, nil
	}
	buf := make([]*record.Record, 0, it.size)
	for len(buf) < it.size {
		rec, ok, err := it.inner.Next(ctx)
		if err != nil {
			it.done = true
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		buf = append(buf, rec)
	}
	if len(buf) == 0 || (it.done && it.dropLast && len(buf) < it.size) {
		it.done = true
		return nil, false, nil
	}
	batch, err := record.Collate(buf)
	if err != nil {
		it.done = true
		return nil, false, err
	}
	if it.metrics != nil {
		it.metrics.RecordBatches(ctx, it.source, 1)
	}
	return batch, true, nil
}

func (it *batchIter) Close() error { return it.inner.Close() }
