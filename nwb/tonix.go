package nwb

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/nix"
)

// Well-known names and types of the container layout.
const (
	BlockType         = "nwb.file"
	RootSectionType   = "recording"
	RecordingName     = "Recording"
	AcquisitionName   = "acquisition"
	AcquisitionType   = "nwb.acquisition"
	ElectrodeType     = "Electrode"
	propName          = "Name"
	propDescription   = "Description"
	propDate          = "Date"
	propTime          = "Time"
	propTimeZone      = "TimeZone"
	dateLayout        = "2006-01-02"
	timeLayout        = "15:04:05"
	timeLabel         = "time"
	timeUnit          = "s"
	sessionTimeZone   = "UTC"
	startingTimeUnits = "seconds"
)

// ToNIX converts an NWB file into a new container.
//
// The block and the root section are both named basename. The root section
// is the block metadata and holds a "Recording" section with the session
// name, description, start date and time in UTC. Every acquisition series
// becomes a data array in the "acquisition" group: a series with timestamps
// gets a range time dimension, one with a rate a sampled time dimension whose
// offset is the starting time in seconds. Further axes get set dimensions.
// Voltage clamp electrodes become sections of type "Electrode" under the root
// section, linked as the array metadata.
//
// Parameters:
//   - in: Source file
//   - basename: Name of the block and root section, usually the file stem
//   - opts: WithLogger
//
// Returns:
//   - *nix.File: The populated container
//   - error: ErrInvalidSource for series without timing, ErrInvalidUnit for
//     unknown starting time units, or a container error
func ToNIX(in *File, basename string, opts ...Option) (*nix.File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	f := nix.NewFile()
	b, err := f.CreateBlock(basename, BlockType)
	if err != nil {
		return nil, err
	}
	md, err := f.CreateSection(basename, RootSectionType)
	if err != nil {
		return nil, err
	}
	b.SetMetadata(md)

	if err := writeRecording(md, in); err != nil {
		return nil, err
	}

	var acq *nix.Group
	for _, ts := range in.Acquisition {
		if acq == nil {
			if acq, err = b.CreateGroup(AcquisitionName, AcquisitionType); err != nil {
				return nil, err
			}
		}

		cfg.logger.WithFields(logrus.Fields{
			"series": ts.Name,
			"kind":   ts.Kind.String(),
		}).Info("converting acquisition series")

		da, err := writeSeries(b, ts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", ts.Name, err)
		}
		if err := acq.AddDataArray(da); err != nil {
			return nil, err
		}

		if ts.Kind == KindVoltageClampSeries && ts.Electrode != nil {
			el, err := electrodeSection(md, ts.Electrode)
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", ts.Name, err)
			}
			da.SetMetadata(el)
		}
	}

	return f, nil
}

func writeRecording(md *nix.Section, in *File) error {
	rec, err := md.CreateSection(RecordingName, RecordingName)
	if err != nil {
		return err
	}

	start := in.SessionStartTime.UTC()
	props := []struct{ name, value string }{
		{propName, in.Identifier},
		{propDescription, in.SessionDescription},
		{propDate, start.Format(dateLayout)},
		{propTime, start.Format(timeLayout)},
		{propTimeZone, sessionTimeZone},
	}
	for _, p := range props {
		if p.value == "" {
			continue
		}
		if err := textProperty(rec, p.name, p.value); err != nil {
			return err
		}
	}

	return nil
}

func textProperty(sec *nix.Section, name, value string) error {
	p, err := sec.CreateProperty(name, value)
	if err != nil {
		return err
	}
	p.SetType(metadata.KindStr.String())

	return nil
}

func writeSeries(b *nix.Block, ts *TimeSeries) (*nix.DataArray, error) {
	shape := ts.shape()
	da, err := b.CreateDataArray(ts.Name, ts.Kind.String(), shape, slices.Clone(ts.Data))
	if err != nil {
		return nil, err
	}
	da.SetUnit(ts.Unit)

	switch {
	case ts.Timestamps != nil:
		if len(ts.Timestamps) != shape[0] {
			return nil, fmt.Errorf("%w: %d timestamps for %d samples", errs.ErrShapeMismatch, len(ts.Timestamps), shape[0])
		}
		dim, err := da.AppendRangeDimension(slices.Clone(ts.Timestamps))
		if err != nil {
			return nil, err
		}
		dim.Label, dim.Unit = timeLabel, timeUnit
	case ts.Rate > 0:
		offset, err := toSeconds(ts.StartingTime, ts.StartingTimeUnit)
		if err != nil {
			return nil, err
		}
		dim, err := da.AppendSampledDimension(1 / ts.Rate)
		if err != nil {
			return nil, err
		}
		dim.Label, dim.Unit, dim.Offset = timeLabel, timeUnit, offset
	default:
		return nil, fmt.Errorf("%w: no rate and no timestamps", errs.ErrInvalidSource)
	}

	for range shape[1:] {
		da.AppendSetDimension()
	}

	return da, nil
}

// electrodeSection returns the electrode section under md, creating it on
// first use.
func electrodeSection(md *nix.Section, el *Electrode) (*nix.Section, error) {
	sec, err := md.Section(el.Name)
	if err != nil {
		if sec, err = md.CreateSection(el.Name, ElectrodeType); err != nil {
			return nil, err
		}
	}

	if el.Description != "" {
		if _, err := sec.Property(propDescription); err != nil {
			if err := textProperty(sec, propDescription, el.Description); err != nil {
				return nil, err
			}
		}
	}

	return sec, nil
}
