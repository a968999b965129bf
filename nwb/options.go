package nwb

import (
	"github.com/sirupsen/logrus"

	"github.com/nixworks/nixworks/internal/options"
)

// Config holds the settings of ToNIX and FromNIX.
type Config struct {
	logger logrus.FieldLogger
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{logger: logrus.StandardLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures ToNIX and FromNIX.
type Option = options.Option[*Config]

// WithLogger sets the logger receiving per-series messages. A nil logger is
// ignored.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
