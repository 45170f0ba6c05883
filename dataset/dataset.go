package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/datakit-go/datastream/errors"
	"github.com/datakit-go/datastream/logger"
	"github.com/datakit-go/datastream/observability"
	"github.com/datakit-go/datastream/provider"
	"github.com/datakit-go/datastream/record"
	"github.com/datakit-go/datastream/stream"
)

// Format selects how provider values reach the consumer.
type Format = stream.Format

const (
	// FormatNative converts provider values to host-native record values.
	FormatNative = stream.FormatNative
	// FormatRaw passes provider values through untouched.
	FormatRaw = stream.FormatRaw
)

// Result is what Load produces: exactly one of a lazy stream, an
// eager dataset, or a collection of splits.
type Result struct {
	stream     *stream.Stream
	eager      *EagerDataset
	collection *Collection
}

// Stream returns the lazy stream, or nil when the result is eager or
// a collection.
func (r *Result) Stream() *stream.Stream { return r.stream }

// Eager returns the materialized dataset, or nil otherwise.
func (r *Result) Eager() *EagerDataset { return r.eager }

// Collection returns the split collection, or nil otherwise.
func (r *Result) Collection() *Collection { return r.collection }

var defaultManager = provider.NewManager(provider.NewRegistry[provider.Source]())

// DefaultManager exposes the package-level source manager used when
// Load is called without WithManager.
func DefaultManager() *provider.Manager[provider.Source] { return defaultManager }

// Load resolves sourceID and produces a Result per the options: a lazy
// stream when streaming, an eager dataset otherwise, and a collection
// when the source has splits and none was selected.
func Load(ctx context.Context, sourceID string, opts ...LoadOption) (res *Result, err error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartLoadSpan(ctx, sourceID, o.Split)
	defer func() { observability.EndSpan(span, err) }()
	mgr := o.manager
	if mgr == nil {
		mgr = defaultManager
	}

	src, err := mgr.GetByName(sourceID)
	if err != nil {
		return nil, errors.NotFound("source", sourceID)
	}

	log := logger.Get("dataset")
	log.Debug("loading dataset", logger.Fields(
		logger.FieldSource, sourceID,
		logger.FieldSplit, o.Split,
		"streaming", o.Streaming,
	))

	// A source is split-bearing only when it actually has splits; a
	// SplitSource implementation with none routes like a plain source.
	splitter, hasSplits := src.(provider.SplitSource)
	hasSplits = hasSplits && len(splitter.Splits()) > 0
	switch {
	case o.Split != "":
		if !hasSplits {
			return nil, errors.NotFound("split", fmt.Sprintf("%s/%s", sourceID, o.Split))
		}
		part, err := splitter.Split(o.Split)
		if err != nil {
			return nil, err
		}
		return loadOne(ctx, part, o)
	case hasSplits:
		return loadCollection(ctx, sourceID, splitter, o)
	default:
		return loadOne(ctx, src, o)
	}
}

func loadOne(ctx context.Context, src provider.Source, o *LoadOptions) (*Result, error) {
	s := newStream(src, o)
	if o.Streaming {
		return &Result{stream: s}, nil
	}
	eager, err := materialize(ctx, s)
	if err != nil {
		return nil, err
	}
	return &Result{eager: eager}, nil
}

func loadCollection(ctx context.Context, sourceID string, src provider.SplitSource, o *LoadOptions) (*Result, error) {
	names := append([]string(nil), src.Splits()...)
	sort.Strings(names)

	col := &Collection{
		source:       sourceID,
		defaultSplit: defaultSplitName(o),
		splits:       make(map[string]*Result, len(names)),
		names:        names,
	}
	for _, name := range names {
		part, err := src.Split(name)
		if err != nil {
			return nil, err
		}
		res, err := loadOne(ctx, part, o)
		if err != nil {
			return nil, err
		}
		col.splits[name] = res
	}
	return &Result{collection: col}, nil
}

func defaultSplitName(o *LoadOptions) string {
	if o.cfg != nil && o.cfg.DefaultSplit != "" {
		return o.cfg.DefaultSplit
	}
	return "train"
}

func newStream(src provider.Source, o *LoadOptions) *stream.Stream {
	s := stream.FromSource(src)
	if o.Format != FormatNative {
		s = s.WithFormat(o.Format)
	}
	if o.Shuffle {
		s = s.Shuffle(o.Seed, o.ShuffleBuffer)
	}
	return s
}

func materialize(ctx context.Context, s *stream.Stream) (*EagerDataset, error) {
	ctx, span := observability.StartMaterializeSpan(ctx, s.Source())
	records, err := s.Collect(ctx)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return &EagerDataset{records: records, lazy: s}, nil
}

// EagerDataset holds fully materialized records and supports the
// positional access a lazy stream refuses.
type EagerDataset struct {
	records []*record.Record
	lazy    *stream.Stream
}

// Len returns the number of records.
func (d *EagerDataset) Len() int { return len(d.records) }

// At returns the record at index.
func (d *EagerDataset) At(index int) (*record.Record, error) {
	if index < 0 || index >= len(d.records) {
		return nil, errors.InvalidInput("index", fmt.Sprintf("%d out of range [0,%d)", index, len(d.records)))
	}
	return d.records[index], nil
}

// Records returns the backing slice. Callers must not mutate it.
func (d *EagerDataset) Records() []*record.Record { return d.records }

// Streamed re-enters the lazy path over the same source pipeline.
func (d *EagerDataset) Streamed() *stream.Stream { return d.lazy }

// Collection groups the splits of a multi-split source.
type Collection struct {
	source       string
	defaultSplit string
	splits       map[string]*Result
	names        []string
}

// Names returns the split names in sorted order.
func (c *Collection) Names() []string { return c.names }

// Split returns the result for a named split.
func (c *Collection) Split(name string) (*Result, error) {
	res, ok := c.splits[name]
	if !ok {
		return nil, errors.NotFound("split", fmt.Sprintf("%s/%s", c.source, name))
	}
	return res, nil
}

// Default returns the configured default split.
func (c *Collection) Default() (*Result, error) {
	return c.Split(c.defaultSplit)
}
