package mne

import (
	"github.com/sirupsen/logrus"

	"github.com/nixworks/nixworks/internal/options"
)

// Config holds the settings of WriteRaw and ImportNIX.
type Config struct {
	splitData    bool
	splitStimuli bool
	logger       logrus.FieldLogger
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{logger: logrus.StandardLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures WriteRaw and ImportNIX.
type Option = options.Option[*Config]

// WithSplitData stores one data array per channel instead of a single
// channel x time array.
func WithSplitData(split bool) Option {
	return options.NoError(func(c *Config) {
		c.splitData = split
	})
}

// WithSplitStimuli stores one multi-tag per annotation label instead of a
// single "Stimuli" tag.
func WithSplitStimuli(split bool) Option {
	return options.NoError(func(c *Config) {
		c.splitStimuli = split
	})
}

// WithLogger sets the logger receiving progress messages. A nil logger is
// ignored.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
