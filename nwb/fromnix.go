package nwb

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/nix"
)

// FromNIX converts every block of f into an NWB file.
//
// Each block must carry metadata with a "Recording" section holding Name,
// Date and Time, as written by ToNIX. One-dimensional arrays with a sampled
// time dimension become series with a rate and starting time, those with a
// range dimension become series with timestamps. Other arrays are skipped.
//
// Parameters:
//   - f: Container to read
//   - opts: WithLogger
//
// Returns:
//   - []*File: One file per block, in block order
//   - error: ErrSchemaMismatch when the recording metadata is missing or
//     malformed, ErrInvalidUnit for unknown time units
func FromNIX(f *nix.File, opts ...Option) ([]*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	out := make([]*File, 0, len(f.Blocks()))
	for _, b := range f.Blocks() {
		file, err := readBlock(b, cfg.logger)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Name(), err)
		}
		out = append(out, file)
	}

	return out, nil
}

func readBlock(b *nix.Block, logger logrus.FieldLogger) (*File, error) {
	md := b.Metadata()
	if md == nil {
		return nil, fmt.Errorf("%w: block has no metadata", errs.ErrSchemaMismatch)
	}
	rec, err := md.Section(RecordingName)
	if err != nil {
		return nil, schemaError(err)
	}

	name, err := textValue(rec, propName)
	if err != nil {
		return nil, err
	}
	start, err := sessionStart(rec)
	if err != nil {
		return nil, err
	}

	out := &File{Identifier: name, SessionDescription: name, SessionStartTime: start}
	if desc, err := textValue(rec, propDescription); err == nil {
		out.SessionDescription = desc
	}

	for _, da := range b.DataArrays() {
		ts, ok, err := readSeries(da)
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", da.Name(), err)
		}
		if !ok {
			continue
		}

		logger.WithFields(logrus.Fields{
			"series": ts.Name,
			"rate":   ts.Rate,
		}).Info("read acquisition series")
		out.Acquisition = append(out.Acquisition, ts)
	}

	return out, nil
}

func sessionStart(rec *nix.Section) (time.Time, error) {
	date, err := textValue(rec, propDate)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := textValue(rec, propTime)
	if err != nil {
		return time.Time{}, err
	}

	start, err := time.Parse(dateLayout+" "+timeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: recording time: %w", errs.ErrSchemaMismatch, err)
	}

	return start, nil
}

// readSeries converts a one-dimensional time array. ok is false for arrays
// of any other layout.
func readSeries(da *nix.DataArray) (ts *TimeSeries, ok bool, err error) {
	dims := da.Dimensions()
	if len(dims) != 1 || da.Rank() != 1 {
		return nil, false, nil
	}

	kind, err := ParseSeriesKind(da.Type())
	if err != nil {
		kind = KindTimeSeries
	}
	ts = &TimeSeries{
		Name: da.Name(),
		Kind: kind,
		Data: slices.Clone(da.Data()),
		Unit: da.Unit(),
	}

	switch d := dims[0].(type) {
	case *nix.SampledDimension:
		if ts.Rate, err = rateFromInterval(d.Interval, d.Unit); err != nil {
			return nil, false, err
		}
		if ts.StartingTime, err = toSeconds(d.Offset, d.Unit); err != nil {
			return nil, false, err
		}
		ts.StartingTimeUnit = startingTimeUnits
	case *nix.RangeDimension:
		ticks := d.Ticks()
		ts.Timestamps = make([]float64, len(ticks))
		for i, tick := range ticks {
			if ts.Timestamps[i], err = toSeconds(tick, d.Unit); err != nil {
				return nil, false, err
			}
		}
	default:
		return nil, false, nil
	}

	if el := da.Metadata(); el != nil && el.Type() == ElectrodeType {
		ts.Electrode = &Electrode{Name: el.Name()}
		if desc, err := textValue(el, propDescription); err == nil {
			ts.Electrode.Description = desc
		}
	}

	return ts, true, nil
}

func textValue(sec *nix.Section, name string) (string, error) {
	p, err := sec.Property(name)
	if err != nil {
		return "", schemaError(err)
	}
	values, err := p.Strings()
	if err != nil || len(values) == 0 {
		return "", fmt.Errorf("%w: property %q of %q is not text", errs.ErrSchemaMismatch, name, sec.Name())
	}

	return values[0], nil
}

func schemaError(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("%w: %w", errs.ErrSchemaMismatch, err)
	}

	return err
}
