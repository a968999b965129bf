package mne

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/events"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/signal"
)

// ImportNIX rebuilds a Raw from a container written by WriteRaw.
//
// Split data arrays are merged back into one channels x times matrix. Channel
// names come from the info record, so names altered for storage are restored.
//
// Parameters:
//   - f: Container produced by WriteRaw
//   - opts: Only WithLogger is used
//
// Returns:
//   - *Raw: The recording with info, data, times, annotations and extras
//   - error: ErrSchemaMismatch when a well-known object is missing,
//     ErrShapeMismatch when the data disagrees with nchan
func ImportNIX(f *nix.File, opts ...Option) (*Raw, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	infoSec, err := f.Section(InfoName)
	if err != nil {
		return nil, schemaError(err)
	}
	info, err := metadata.ReadTree(infoSec, f)
	if err != nil {
		return nil, fmt.Errorf("read info: %w", err)
	}
	nchan, err := info.Int(keyNChan)
	if err != nil {
		return nil, err
	}
	if _, err := info.Float(keySFreq); err != nil {
		return nil, err
	}

	b, err := f.Block(BlockName)
	if err != nil {
		return nil, schemaError(err)
	}
	g, err := b.Group(GroupName)
	if err != nil {
		return nil, schemaError(err)
	}

	sig, err := signal.Read(signal.Arrays(g.DataArrays()))
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if rows, _ := sig.Data.Dims(); rows != nchan {
		return nil, fmt.Errorf("%w: %d data rows for nchan %d", errs.ErrShapeMismatch, rows, nchan)
	}

	annotations, err := events.Read(g.MultiTags())
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}

	raw := &Raw{Info: info, Data: sig.Data, Times: sig.Times, Annotations: annotations}
	if raw.ChannelNames() == nil {
		info.Set(keyChannelNames, metadata.Vector{K: metadata.KindList, Items: stringItems(sig.Channels)})
	}

	for _, sec := range f.Sections() {
		if sec.Type() != ExtrasType || !strings.HasPrefix(sec.Name(), ExtrasName) {
			continue
		}
		extra, err := metadata.ReadTree(sec, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", sec.Name(), err)
		}
		raw.Extras = append(raw.Extras, extra)
	}

	cfg.logger.WithFields(logrus.Fields{
		"channels":    nchan,
		"samples":     raw.NTimes(),
		"annotations": len(annotations),
	}).Info("imported raw data")

	return raw, nil
}

func schemaError(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("%w: %w", errs.ErrSchemaMismatch, err)
	}

	return err
}
