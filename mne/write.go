package mne

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nixworks/nixworks/events"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/signal"
)

// Well-known object names and types of the container layout.
const (
	BlockName  = "EEG Data Block"
	BlockType  = "Recording"
	GroupName  = "Raw Data Group"
	GroupType  = "EEG Channels"
	InfoName   = "Info"
	InfoType   = "File metadata"
	ExtrasName = "Extras"
	ExtrasType = "Raw Extras metadata"
)

// WriteRaw stores raw in f using the layout described in the package
// documentation.
//
// Parameters:
//   - f: Container receiving the block and sections; must not already hold them
//   - raw: Recording to store; Info must name every data row
//   - opts: WithSplitData, WithSplitStimuli and WithLogger
//
// Returns:
//   - error: ErrSchemaMismatch, ErrShapeMismatch or a container error
func WriteRaw(f *nix.File, raw *Raw, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	sig, err := raw.Signal()
	if err != nil {
		return err
	}
	cfg.logger.WithFields(logrus.Fields{
		"channels": sig.NChan(),
		"samples":  sig.NTimes(),
		"split":    cfg.splitData,
	}).Info("writing raw data")

	b, err := f.CreateBlock(BlockName, BlockType)
	if err != nil {
		return err
	}
	g, err := b.CreateGroup(GroupName, GroupType)
	if err != nil {
		return err
	}

	if cfg.splitData {
		_, err = signal.WriteSplit(b, g, sig)
	} else {
		_, err = signal.WriteSingle(b, g, sig)
	}
	if err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	tags, err := events.Write(b, g, raw.Annotations, cfg.splitStimuli)
	if err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	if len(tags) > 0 {
		cfg.logger.WithFields(logrus.Fields{
			"events": len(raw.Annotations),
			"tags":   len(tags),
		}).Debug("wrote annotations")
	}

	info, err := f.CreateSection(InfoName, InfoType)
	if err != nil {
		return err
	}
	if err := metadata.BuildTree(info, raw.Info, b); err != nil {
		return fmt.Errorf("write info: %w", err)
	}

	for i, extra := range raw.Extras {
		name := ExtrasName
		if len(raw.Extras) > 1 {
			name = fmt.Sprintf("%s-%d", ExtrasName, i)
		}
		sec, err := f.CreateSection(name, ExtrasType)
		if err != nil {
			return err
		}
		if err := metadata.BuildTree(sec, extra, b); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}
