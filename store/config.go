package store

import (
	"fmt"

	"github.com/nixworks/nixworks/compress"
	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/format"
	"github.com/nixworks/nixworks/internal/options"
	"github.com/nixworks/nixworks/section"
)

// EncoderConfig holds the header being built and the codec it selects.
type EncoderConfig struct {
	header *section.Header
	codec  compress.Codec
	engine endian.EndianEngine
}

func newEncoderConfig() *EncoderConfig {
	header := section.NewHeader()

	return &EncoderConfig{
		header: header,
		engine: header.Flag.GetEndianEngine(),
	}
}

// setCompression validates comp and records it in the header flag.
func (c *EncoderConfig) setCompression(comp format.CompressionType) error {
	if _, err := compress.GetCodec(comp); err != nil {
		return fmt.Errorf("invalid payload compression: %w", err)
	}
	c.header.Flag.SetCompression(comp)

	return nil
}

func (c *EncoderConfig) setBigEndian(big bool) {
	if big {
		c.header.Flag.WithBigEndian()
	} else {
		c.header.Flag.WithLittleEndian()
	}
	c.engine = c.header.Flag.GetEndianEngine()
}

// Option configures Encode and Save.
type Option = options.Option[*EncoderConfig]

// WithCompression selects the payload codec. Deflate is the default.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(c *EncoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithLittleEndian writes little-endian payloads. It is the default option.
func WithLittleEndian() Option {
	return options.NoError(func(c *EncoderConfig) {
		c.setBigEndian(false)
	})
}

// WithBigEndian writes big-endian payloads.
func WithBigEndian() Option {
	return options.NoError(func(c *EncoderConfig) {
		c.setBigEndian(true)
	})
}
