package config

import (
	"fmt"

	"github.com/datakit-go/datastream/logger"
)

// Config is the datastream configuration section. It tunes pipeline
// defaults that callers would otherwise pass per call site.
type Config struct {
	// DefaultSplit is the split loaded when none is requested.
	DefaultSplit string `yaml:"default_split" mapstructure:"default_split" validate:"omitempty,alphanum"`
	// ShuffleBuffer is the reservoir size for generic shuffles.
	ShuffleBuffer int `yaml:"shuffle_buffer" mapstructure:"shuffle_buffer" validate:"omitempty,min=1"`
	// Seed fixes the shuffle seed for reproducible runs. Negative
	// means unseeded.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
	// Streaming selects the lazy path by default when loading.
	Streaming bool `yaml:"streaming" mapstructure:"streaming"`
	// Logging configures the pipeline loggers.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills unset fields with pipeline defaults.
func (c *Config) ApplyDefaults() {
	if c.DefaultSplit == "" {
		c.DefaultSplit = "train"
	}
	if c.ShuffleBuffer == 0 {
		c.ShuffleBuffer = 1000
	}
	if c.Seed == 0 {
		c.Seed = -1
	}
	c.Logging.ApplyDefaults()
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.ShuffleBuffer < 1 {
		return fmt.Errorf("datastream.shuffle_buffer must be positive (got: %d)", c.ShuffleBuffer)
	}
	return c.Logging.Validate()
}
