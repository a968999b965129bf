package mne

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/source"
	"github.com/nixworks/nixworks/source/montage"
)

// Info record keys.
const (
	keyChannelNames     = "ch_names"
	keyCustomRefApplied = "custom_ref_applied"
	keyHighpass         = "highpass"
	keyLowpass          = "lowpass"
	keyMeasDate         = "meas_date"
	keyNChan            = "nchan"
	keySFreq            = "sfreq"
)

// Channel record keys.
const (
	keyCal          = "cal"
	keyChannelName  = "ch_name"
	keyCoilType     = "coil_type"
	keyCoordFrame   = "coord_frame"
	keyKind         = "kind"
	keyLoc          = "loc"
	keyLogNo        = "logno"
	keyRange        = "range"
	keyScanNo       = "scanno"
	keyUnit         = "unit"
	keyUnitMultiple = "unit_mul"
)

// FIFF codes used in channel records.
const (
	fiffEEGChannel  = 2
	fiffMiscChannel = 502
	fiffCoilEEG     = 1
	fiffCoilNone    = 0
	fiffCoordHead   = 4
	fiffUnitV       = 107
	fiffUnitNone    = -1

	locLength = 12
	unitVolt  = "V"
)

// FromSource builds a Raw from a decoded EDF or BrainVision recording.
//
// The info record carries nchan, sfreq, ch_names and one chs entry per
// channel. Voltage channels become EEG channels, anything else a misc
// channel. Filter settings come from the recording header when present,
// otherwise highpass is 0 and lowpass the Nyquist frequency. The header
// itself becomes the single extras record.
//
// Parameters:
//   - rec: Decoded recording; must pass Validate
//
// Returns:
//   - *Raw: Raw sharing the recording's data matrix
//   - error: ErrInvalidSource for an inconsistent recording
func FromSource(rec *source.Recording) (*Raw, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	highpass, lowpass := 0.0, rec.SampleRate/2
	if rec.Header != nil {
		if hp, err := rec.Header.Float(keyHighpass); err == nil {
			highpass = hp
		}
		if lp, err := rec.Header.Float(keyLowpass); err == nil {
			lowpass = lp
		}
	}

	info := metadata.NewRecord()
	info.Set(keyChannelNames, metadata.Vector{K: metadata.KindList, Items: stringItems(rec.ChannelNames)})
	info.Set(metadata.ChannelListKey, channelList(rec))
	info.Set(keyCustomRefApplied, metadata.Scalar{K: metadata.KindInt, V: int64(0)})
	info.Set(keyHighpass, metadata.Scalar{K: metadata.KindFloat, V: highpass})
	info.Set(keyLowpass, metadata.Scalar{K: metadata.KindFloat, V: lowpass})
	if !rec.StartTime.IsZero() {
		info.Set(keyMeasDate, metadata.Scalar{K: metadata.KindStr, V: rec.StartTime.UTC().Format(time.RFC3339Nano)})
	}
	info.Set(keyNChan, metadata.Scalar{K: metadata.KindInt, V: int64(rec.NChan())})
	info.Set(keySFreq, metadata.Scalar{K: metadata.KindFloat, V: rec.SampleRate})

	raw := &Raw{
		Info:        info,
		Data:        rec.Data,
		Times:       rec.Times(),
		Annotations: slices.Clone(rec.Annotations),
	}
	if rec.Header != nil && rec.Header.Len() > 0 {
		raw.Extras = []*metadata.Record{rec.Header}
	}

	return raw, nil
}

func channelList(rec *source.Recording) metadata.RecordList {
	list := metadata.RecordList{K: metadata.KindList, Items: make([]*metadata.Record, rec.NChan())}
	for i, name := range rec.ChannelNames {
		kind, coil, unit := int64(fiffMiscChannel), int64(fiffCoilNone), int64(fiffUnitNone)
		if i >= len(rec.Units) {
			kind, coil, unit = fiffEEGChannel, fiffCoilEEG, fiffUnitV
		} else if _, ok := source.VoltFactor(rec.Units[i]); ok {
			kind, coil, unit = fiffEEGChannel, fiffCoilEEG, fiffUnitV
		}

		ch := metadata.NewRecord()
		ch.Set(keyCal, metadata.Scalar{K: metadata.KindFloat, V: 1.0})
		ch.Set(keyChannelName, metadata.Scalar{K: metadata.KindStr, V: name})
		ch.Set(keyCoilType, metadata.Scalar{K: metadata.KindInt, V: coil})
		ch.Set(keyCoordFrame, metadata.Scalar{K: metadata.KindInt, V: int64(fiffCoordHead)})
		ch.Set(keyKind, metadata.Scalar{K: metadata.KindInt, V: kind})
		ch.Set(keyLogNo, metadata.Scalar{K: metadata.KindInt, V: int64(i + 1)})
		ch.Set(keyRange, metadata.Scalar{K: metadata.KindFloat, V: 1.0})
		ch.Set(keyScanNo, metadata.Scalar{K: metadata.KindInt, V: int64(i + 1)})
		ch.Set(keyUnit, metadata.Scalar{K: metadata.KindInt, V: unit})
		ch.Set(keyUnitMultiple, metadata.Scalar{K: metadata.KindInt, V: int64(0)})
		ch.Set(keyLoc, zeroLoc())
		list.Items[i] = ch
	}

	return list
}

func zeroLoc() metadata.Vector {
	items := make([]any, locLength)
	for i := range items {
		items[i] = 0.0
	}

	return metadata.Vector{K: metadata.KindNDArray, Items: items}
}

func stringItems(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}

	return out
}

// ApplyMontage writes electrode positions into the first three loc entries
// of the matching chs records. Labels match channel names case-insensitively;
// channels without a position are left unchanged.
//
// Parameters:
//   - raw: Raw whose info holds a chs list
//   - positions: Electrode positions, e.g. from montage.ReadSFP
//
// Returns:
//   - int: Number of channels that received a position
//   - error: ErrSchemaMismatch when the info has no chs list
func ApplyMontage(raw *Raw, positions []montage.Position) (int, error) {
	if raw.Info == nil {
		return 0, fmt.Errorf("%w: raw has no info", errs.ErrSchemaMismatch)
	}
	chs, err := raw.Info.Records(metadata.ChannelListKey)
	if err != nil {
		return 0, err
	}

	byLabel := make(map[string]montage.Position, len(positions))
	for _, p := range positions {
		byLabel[strings.ToLower(p.Label)] = p
	}

	matched := 0
	for _, ch := range chs {
		name, err := ch.Text(keyChannelName)
		if err != nil {
			return matched, err
		}
		p, ok := byLabel[strings.ToLower(name)]
		if !ok {
			continue
		}

		loc := zeroLoc()
		if v, ok := ch.Get(keyLoc); ok {
			if vec, ok := v.(metadata.Vector); ok && len(vec.Items) == locLength {
				loc.Items = slices.Clone(vec.Items)
			}
		}
		for i, c := range p.Loc() {
			loc.Items[i] = c
		}
		ch.Set(keyLoc, loc)
		matched++
	}

	return matched, nil
}
