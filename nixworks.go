// Package nixworks converts EEG recordings into nix containers and back.
//
// The converters read an EDF or BrainVision recording, map it onto an
// MNE-style raw structure and store that in a nix container file. The
// reverse direction imports such a container and exports it as BrainVision.
//
// # Basic Usage
//
// Converting a recording, with one data array per channel:
//
//	out, err := nixworks.ConvertFile("subject01.vhdr",
//	    nixworks.WithSplitData(true),
//	    nixworks.WithMontage("cap.sfp"),
//	)
//
// Reading it back:
//
//	raw, err := nixworks.ImportFile(out)
//	fmt.Println(raw.ChannelNames(), raw.SFreq())
//
// # Package Structure
//
// This package wraps the mne, store and source packages for the common file
// to file conversions. The nwb package converts NWB acquisition data, and the
// nix, metadata, signal and events packages expose the container model and
// the individual mapping steps.
package nixworks

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
	"github.com/nixworks/nixworks/internal/options"
	"github.com/nixworks/nixworks/mne"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/source"
	"github.com/nixworks/nixworks/source/brainvision"
	"github.com/nixworks/nixworks/source/edf"
	"github.com/nixworks/nixworks/source/montage"
	"github.com/nixworks/nixworks/store"
)

// File extensions recognised by the converters. Matching is case-insensitive.
const (
	ExtEDF         = ".edf"
	ExtBrainVision = ".vhdr"
	ExtNIX         = ".nix"
	ExtSFP         = ".sfp"
)

// Config holds the settings of the file conversions.
type Config struct {
	splitData    bool
	splitStimuli bool
	montage      string
	storeOpts    []store.Option
	logger       logrus.FieldLogger
}

// Option configures ConvertFile, ImportFile and ExportBrainVision.
type Option = options.Option[*Config]

// WithSplitData stores one data array per channel.
func WithSplitData(split bool) Option {
	return options.NoError(func(c *Config) {
		c.splitData = split
	})
}

// WithSplitStimuli stores one multi-tag per annotation label.
func WithSplitStimuli(split bool) Option {
	return options.NoError(func(c *Config) {
		c.splitStimuli = split
	})
}

// WithMontage applies the electrode positions of an .sfp file to the
// channel info. An empty path disables the montage.
func WithMontage(path string) Option {
	return options.NoError(func(c *Config) {
		c.montage = path
	})
}

// WithCompression selects the payload codec of the container file.
func WithCompression(comp format.CompressionType) Option {
	return options.NoError(func(c *Config) {
		c.storeOpts = append(c.storeOpts, store.WithCompression(comp))
	})
}

// WithLogger sets the logger receiving progress messages.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{logger: logrus.StandardLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mneOptions() []mne.Option {
	return []mne.Option{
		mne.WithSplitData(c.splitData),
		mne.WithSplitStimuli(c.splitStimuli),
		mne.WithLogger(c.logger),
	}
}

// OutputPath replaces the extension of path with ext.
func OutputPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// ReadSource decodes an EDF or BrainVision recording, chosen by extension.
//
// Returns:
//   - *source.Recording: The decoded recording
//   - error: ErrUnknownExtension for other extensions, or a reader error
func ReadSource(path string) (*source.Recording, error) {
	switch ext := filepath.Ext(path); {
	case strings.EqualFold(ext, ExtEDF):
		return edf.Read(path)
	case strings.EqualFold(ext, ExtBrainVision):
		return brainvision.Read(path)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownExtension, ext)
	}
}

// ReadMontage reads an electrode position file, chosen by extension.
//
// Returns:
//   - []montage.Position: The electrode positions
//   - error: ErrUnknownExtension for other extensions, or a reader error
func ReadMontage(path string) ([]montage.Position, error) {
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ExtSFP) {
		return nil, fmt.Errorf("%w: montage %q", errs.ErrUnknownExtension, ext)
	}

	return montage.ReadSFP(path)
}

// ConvertFile converts an EDF or BrainVision recording into a nix container
// next to it, with the extension replaced by .nix. An existing file at that
// path is replaced only when the conversion succeeds.
//
// Parameters:
//   - src: Path of the .edf or .vhdr file
//   - opts: WithSplitData, WithSplitStimuli, WithMontage, WithCompression
//     and WithLogger
//
// Returns:
//   - string: Path of the created container
//   - error: ErrUnknownExtension, a source error or a conversion error
func ConvertFile(src string, opts ...Option) (string, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return "", err
	}

	rec, err := ReadSource(src)
	if err != nil {
		return "", err
	}
	cfg.logger.WithFields(logrus.Fields{
		"source":       src,
		"split_data":   cfg.splitData,
		"split_events": cfg.splitStimuli,
	}).Info("converting to NIX")

	raw, err := mne.FromSource(rec)
	if err != nil {
		return "", err
	}

	if cfg.montage != "" {
		positions, err := ReadMontage(cfg.montage)
		if err != nil {
			return "", err
		}
		matched, err := mne.ApplyMontage(raw, positions)
		if err != nil {
			return "", err
		}
		cfg.logger.WithFields(logrus.Fields{
			"montage":  cfg.montage,
			"channels": matched,
		}).Debug("applied montage")
	}

	f := nix.NewFile()
	if err := mne.WriteRaw(f, raw, cfg.mneOptions()...); err != nil {
		return "", err
	}

	out := OutputPath(src, ExtNIX)
	if err := store.Save(out, f, cfg.storeOpts...); err != nil {
		return "", err
	}
	cfg.logger.WithField("path", out).Info("created NIX file")

	return out, nil
}

// ImportFile reads a container written by ConvertFile.
//
// Returns:
//   - *mne.Raw: The recording
//   - error: A container or schema error
func ImportFile(path string, opts ...Option) (*mne.Raw, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	f, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	return mne.ImportNIX(f, mne.WithLogger(cfg.logger))
}

// ExportBrainVision imports a container written by ConvertFile and writes it
// as a BrainVision triple next to it.
//
// Returns:
//   - string: Path of the created .vhdr header
//   - error: A container, schema or file system error
func ExportBrainVision(path string, opts ...Option) (string, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return "", err
	}

	raw, err := ImportFile(path, opts...)
	if err != nil {
		return "", err
	}
	rec, err := raw.Recording()
	if err != nil {
		return "", err
	}

	out := OutputPath(path, ExtBrainVision)
	if err := brainvision.Write(out, rec); err != nil {
		return "", err
	}
	cfg.logger.WithField("path", out).Info("created BrainVision file")

	return out, nil
}
