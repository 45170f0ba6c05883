package stream

import (
	"context"
	"math/rand"
	"time"

	"github.com/datakit-go/datastream/provider"
	"github.com/datakit-go/datastream/record"
)

// DefaultShuffleBuffer is the reservoir size used when Shuffle is
// called with a non-positive buffer size.
const DefaultShuffleBuffer = 1000

// Shuffle returns a stream yielding the same records in randomized
// order. A negative seed draws a fresh one from the clock; the same
// non-negative seed over the same sequence yields the same order.
//
// When the provider cannot shuffle natively, a windowed reservoir of
// bufferSize records approximates a global shuffle in bounded memory:
// each pull emits a random reservoir slot and refills it from upstream.
func (s *Stream) Shuffle(seed int64, bufferSize int) *Stream {
	if bufferSize <= 0 {
		bufferSize = DefaultShuffleBuffer
	}
	if s.pristine && s.source != nil {
		if sh, ok := s.source.(provider.ShuffleSource); ok {
			return s.rebase(sh.Shuffle(seed, bufferSize))
		}
	}
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return s.wrap(func(inner Iterator) Iterator {
		return &shuffleIter{
			inner: inner,
			size:  bufferSize,
			rng:   rand.New(rand.NewSource(seed)),
		}
	})
}

type shuffleIter struct {
	inner  Iterator
	size   int
	rng    *rand.Rand
	buf    []*record.Record
	filled bool
	done   bool
}

func (it *shuffleIter) fill(ctx context.Context) error {
	it.filled = true
	it.buf = make([]*record.Record, 0, it.size)
	for len(it.buf) < it.size {
		rec, ok, err := it.inner.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			it.done = true
			return nil
		}
		it.buf = append(it.buf, rec)
	}
	return nil
}

func (it *shuffleIter) Next(ctx context.Context) (*record.Record, bool, error) {
	if !it.filled {
		if err := it.fill(ctx); err != nil {
			return nil, false, err
		}
	}
	if len(it.buf) == 0 {
		return nil, false, nil
	}
	i := it.rng.Intn(len(it.buf))
	rec := it.buf[i]
	if it.done {
		// Upstream drained, shrink the reservoir.
		it.buf[i] = it.buf[len(it.buf)-1]
		it.buf = it.buf[:len(it.buf)-1]
		return rec, true, nil
	}
	next, ok, err := it.inner.Next(ctx)
	if err != nil {
		return nil, false, err
	}
	if ok {
		it.buf[i] = next
	} else {
		it.done = true
		it.buf[i] = it.buf[len(it.buf)-1]
		it.buf = it.buf[:len(it.buf)-1]
	}
	return rec, true, nil
}

func (it *shuffleIter) Close() error { return it.inner.Close() }
