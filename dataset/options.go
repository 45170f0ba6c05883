package dataset

import (
	"github.com/datakit-go/datastream/config"
	"github.com/datakit-go/datastream/provider"
	"github.com/datakit-go/datastream/validation"
)

// LoadOptions collects the knobs accepted by Load. Zero values mean
// "use the configured default".
type LoadOptions struct {
	Split         string `json:"split" validate:"omitempty,alphanum"`
	Streaming     bool   `json:"streaming"`
	Shuffle       bool   `json:"shuffle"`
	Seed          int64  `json:"seed"`
	ShuffleBuffer int    `json:"shuffle_buffer" validate:"omitempty,min=1"`
	Format        Format `json:"format" validate:"omitempty,oneof=0 1"`

	manager      *provider.Manager[provider.Source]
	cfg          *config.Config
	seedSet      bool
	streamingSet bool
}

// LoadOption configures a single Load call.
type LoadOption func(*LoadOptions)

// WithSplit selects one named split instead of the whole collection.
func WithSplit(name string) LoadOption {
	return func(o *LoadOptions) { o.Split = name }
}

// WithStreaming selects between the lazy stream path and eager
// materialization.
func WithStreaming(streaming bool) LoadOption {
	return func(o *LoadOptions) {
		o.Streaming = streaming
		o.streamingSet = true
	}
}

// WithShuffle randomizes record order at load time.
func WithShuffle(shuffle bool) LoadOption {
	return func(o *LoadOptions) { o.Shuffle = shuffle }
}

// WithSeed fixes the shuffle seed for reproducible runs and implies
// shuffled loading.
func WithSeed(seed int64) LoadOption {
	return func(o *LoadOptions) {
		o.Seed = seed
		o.seedSet = true
		o.Shuffle = true
	}
}

// WithShuffleBuffer overrides the reservoir size for generic shuffles.
func WithShuffleBuffer(size int) LoadOption {
	return func(o *LoadOptions) { o.ShuffleBuffer = size }
}

// WithFormat selects native or raw record values.
func WithFormat(f Format) LoadOption {
	return func(o *LoadOptions) { o.Format = f }
}

// WithManager resolves the source id against a specific manager
// instead of the package default.
func WithManager(m *provider.Manager[provider.Source]) LoadOption {
	return func(o *LoadOptions) { o.manager = m }
}

// WithConfig applies a loaded configuration section as the defaults
// layer under the explicit options.
func WithConfig(cfg *config.Config) LoadOption {
	return func(o *LoadOptions) { o.cfg = cfg }
}

// buildOptions folds the options over config-derived defaults and
// validates the result.
func buildOptions(opts []LoadOption) (*LoadOptions, error) {
	o := &LoadOptions{Seed: -1}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg != nil {
		if !o.seedSet {
			o.Seed = o.cfg.Seed
		}
		if o.ShuffleBuffer == 0 {
			o.ShuffleBuffer = o.cfg.ShuffleBuffer
		}
		if !o.streamingSet {
			o.Streaming = o.cfg.Streaming
		}
	}
	if err := validation.Validate(o); err != nil {
		return nil, err
	}
	return o, nil
}
