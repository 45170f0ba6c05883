package stream

import (
	"context"

	"github.com/google/uuid"

	"github.com/datakit-go/datastream/errors"
	"github.com/datakit-go/datastream/logger"
	"github.com/datakit-go/datastream/observability"
	"github.com/datakit-go/datastream/provider"
	"github.com/datakit-go/datastream/record"
)

// Iterator is the pull protocol for adapted records.
// Structurally compatible with provider.Iterator[T].
type Iterator = provider.Iterator[*record.Record]

// Transform is the per-record hook applied after value adaptation and
// before the record reaches the consumer. It may reshape the record
// freely; the consumer accepts whatever shape it returns.
type Transform func(*record.Record) (*record.Record, error)

// Format selects how provider values reach the consumer.
type Format int

const (
	// FormatNative converts provider values to host-native record values.
	FormatNative Format = iota
	// FormatRaw passes provider values through untouched as foreign values.
	FormatRaw
)

// State is the lifecycle phase of a Stream.
type State uint8

const (
	// StateCreated means no provider iterator has been opened yet.
	StateCreated State = iota
	// StateIterating means an iterator is open.
	StateIterating
	// StateExhausted means the sequence ended normally.
	StateExhausted
	// StateFailed means a provider error surfaced during iteration.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateIterating:
		return "iterating"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// pipeState holds the mutable stream settings shared between a stream
// and the streams derived from it by operators. The non-mutating
// With* entry points clone it; the Set* entry points write through it.
type pipeState struct {
	transform Transform
	format    Format
	adapter   *record.Adapter
}

func (st *pipeState) clone() *pipeState {
	return &pipeState{transform: st.transform, format: st.format, adapter: st.adapter}
}

// Stream is a lazy, pull-based pipeline of dataset records.
//
// Streams are immutable pipelines, not cursors: every operator returns
// a new Stream and opens no iterator, so the input stream can still be
// iterated independently afterward. Work happens only when a terminal
// (Collect, Head, ForEach) or Iterate runs.
//
// A Stream supports at most one open iterator at a time; derive a
// fresh stream per concurrent traversal.
type Stream struct {
	id       string
	source   provider.Source
	pristine bool
	state    *pipeState
	metrics  *observability.Metrics
	log      *logger.Logger
	phase    State

	create func(ctx context.Context, st *pipeState) (Iterator, error)
}

// Option configures a Stream at construction.
type Option func(*Stream)

// WithMetrics attaches observability instruments; traversal counts and
// durations are recorded on iterator close.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Stream) { s.metrics = m }
}

// WithAdapter replaces the default value adapter, e.g. to fix the field
// order to a known schema.
func WithAdapter(a *record.Adapter) Option {
	return func(s *Stream) { s.state.adapter = a }
}

// FromSource creates a Stream over a provider source.
func FromSource(src provider.Source, opts ...Option) *Stream {
	s := &Stream{
		id:       uuid.NewString(),
		source:   src,
		pristine: true,
		state:    &pipeState{format: FormatNative, adapter: &record.Adapter{}},
		log:      logger.Get("stream"),
		phase:    StateCreated,
	}
	s.create = func(ctx context.Context, st *pipeState) (Iterator, error) {
		iter, err := src.Records(ctx)
		if err != nil {
			return nil, errors.ProviderFailure(src.Name(), err)
		}
		return &adaptIter{inner: iter, source: src.Name(), state: st}, nil
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the stream's unique pipeline id.
func (s *Stream) ID() string { return s.id }

// State returns the stream's lifecycle phase. Only the stream's own
// iterator moves the phase; derived streams track their own.
func (s *Stream) State() State { return s.phase }

// Source returns the name of the provider source at the root of the
// pipeline.
func (s *Stream) Source() string {
	if s.source != nil {
		return s.source.Name()
	}
	return "derived"
}

// derive builds a child stream sharing settings and instruments.
// Operator implementations fill in create and, when the derivation
// stays provider-delegable, source.
func (s *Stream) derive() *Stream {
	return &Stream{
		id:      uuid.NewString(),
		state:   s.state,
		metrics: s.metrics,
		log:     s.log,
		phase:   StateCreated,
	}
}

// Iterate opens the stream's iterator. The caller must Close it, also
// on early abandonment. Prefer the terminals, which scope the iterator
// for you.
func (s *Stream) Iterate(ctx context.Context) (Iterator, error) {
	iter, err := s.create(ctx, s.state)
	if err != nil {
		s.phase = StateFailed
		return nil, err
	}
	s.phase = StateIterating
	return newTrackedIter(ctx, s, iter), nil
}

// Len always fails: a lazy stream has no defined length, even when the
// underlying provider happens to know one. Materialize the dataset to
// count it.
func (s *Stream) Len() (int, error) {
	return 0, errors.UnsupportedOperation("length")
}

// At always fails: random positional access would silently defeat the
// memory-bounded design by materializing the stream.
func (s *Stream) At(int) (*record.Record, error) {
	return nil, errors.UnsupportedOperation("index")
}

// --- Transform slot ---

// WithTransform returns a new Stream whose per-record hook is fn.
// The receiver keeps its current hook. A nil fn restores identity.
func (s *Stream) WithTransform(fn Transform) *Stream {
	out := s.derive()
	out.source = s.source
	out.pristine = s.pristine
	out.state = s.state.clone()
	out.state.transform = fn
	out.create = s.create
	return out
}

// SetTransform replaces the per-record hook in place, affecting this
// stream and every stream sharing its settings. A nil fn restores
// identity.
func (s *Stream) SetTransform(fn Transform) {
	s.state.transform = fn
}

// --- Format ---

// WithFormat returns a new Stream producing records in the given
// format. The receiver is unaffected.
func (s *Stream) WithFormat(f Format) *Stream {
	out := s.derive()
	out.source = s.source
	out.pristine = s.pristine
	out.state = s.state.clone()
	out.state.format = f
	out.create = s.create
	return out
}

// SetFormat switches the record format in place.
func (s *Stream) SetFormat(f Format) {
	s.state.format = f
}

// --- Base iterator: raw records to adapted, transformed records ---

type adaptIter struct {
	inner  provider.Iterator[provider.Raw]
	source string
	state  *pipeState
	done   bool
}

func (it *adaptIter) Next(ctx context.Context) (*record.Record, bool, error) {
	if it.done {
		return nil, false, nil
	}
	raw, ok, err := it.inner.Next(ctx)
	if err != nil {
		it.done = true
		if errors.HasCode(err, errors.ErrCodeProviderFailure) {
			return nil, false, err
		}
		return nil, false, errors.ProviderFailure(it.source, err)
	}
	if !ok {
		it.done = true
		return nil, false, nil
	}

	var rec *record.Record
	if it.state.format == FormatRaw {
		rec = it.state.adapter.AdaptRaw(raw)
	} else {
		rec, err = it.state.adapter.Adapt(raw)
		if err != nil {
			it.done = true
			return nil, false, err
		}
	}

	if it.state.transform != nil {
		rec, err = it.state.transform(rec)
		if err != nil {
			it.done = true
			return nil, false, err
		}
	}
	return rec, true, nil
}

func (it *adaptIter) Close() error { return it.inner.Close() }
