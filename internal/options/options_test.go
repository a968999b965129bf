package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type writerConfig struct {
	splitData   bool
	compression string
	calls       []string
}

func withSplitData(enabled bool) Option[*writerConfig] {
	return NoError(func(c *writerConfig) {
		c.splitData = enabled
		c.calls = append(c.calls, "split")
	})
}

func withCompression(name string) Option[*writerConfig] {
	return New(func(c *writerConfig) error {
		if name == "" {
			return errors.New("compression name is empty")
		}
		c.compression = name
		c.calls = append(c.calls, "compression")

		return nil
	})
}

func TestApply_InOrder(t *testing.T) {
	cfg := &writerConfig{}

	err := Apply(cfg, withCompression("zstd"), withSplitData(true))
	require.NoError(t, err)
	require.True(t, cfg.splitData)
	require.Equal(t, "zstd", cfg.compression)
	require.Equal(t, []string{"compression", "split"}, cfg.calls)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	cfg := &writerConfig{}

	err := Apply(cfg, withCompression(""), withSplitData(true))
	require.Error(t, err)
	require.Contains(t, err.Error(), "compression name is empty")
	require.False(t, cfg.splitData)
	require.Empty(t, cfg.calls)
}

func TestApply_NoOptions(t *testing.T) {
	cfg := &writerConfig{compression: "deflate"}

	require.NoError(t, Apply(cfg))
	require.Equal(t, "deflate", cfg.compression)
}

func TestApply_SkipsNilOption(t *testing.T) {
	cfg := &writerConfig{}

	require.NoError(t, Apply(cfg, nil, withSplitData(true)))
	require.True(t, cfg.splitData)
}
