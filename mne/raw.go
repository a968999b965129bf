package mne

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/events"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/signal"
	"github.com/nixworks/nixworks/source"
)

// Raw is a continuous recording in MNE terms.
type Raw struct {
	// Info is the measurement info record.
	Info *metadata.Record
	// Data holds channels x times in volts.
	Data *mat.Dense
	// Times are the sample times in seconds.
	Times []float64
	// Annotations are the labelled events of the recording.
	Annotations []events.Event
	// Extras are reader-specific header records.
	Extras []*metadata.Record
}

// ChannelNames returns the channel names from the info ch_names entry, or
// from the chs list when ch_names is absent. It returns nil when neither is
// present.
func (r *Raw) ChannelNames() []string {
	if r.Info == nil {
		return nil
	}
	if names, err := r.Info.Strings(keyChannelNames); err == nil {
		return names
	}

	chs, err := r.Info.Records(metadata.ChannelListKey)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(chs))
	for _, ch := range chs {
		name, err := ch.Text(keyChannelName)
		if err != nil {
			return nil
		}
		names = append(names, name)
	}

	return names
}

// NChan returns the info nchan entry, falling back to the data rows.
func (r *Raw) NChan() int {
	if r.Info != nil {
		if n, err := r.Info.Int(keyNChan); err == nil {
			return n
		}
	}
	if r.Data == nil {
		return 0
	}
	rows, _ := r.Data.Dims()

	return rows
}

// SFreq returns the sampling frequency in Hz, or 0 when unknown.
func (r *Raw) SFreq() float64 {
	if r.Info == nil {
		return 0
	}
	f, err := r.Info.Float(keySFreq)
	if err != nil {
		return 0
	}

	return f
}

// NTimes returns the number of samples per channel.
func (r *Raw) NTimes() int {
	return len(r.Times)
}

// Signal returns the data as a channel x time signal.
//
// Returns:
//   - signal.Signal: The data with channel names and times
//   - error: ErrSchemaMismatch when data, names or nchan disagree
func (r *Raw) Signal() (signal.Signal, error) {
	if r.Data == nil {
		return signal.Signal{}, fmt.Errorf("%w: raw has no data", errs.ErrSchemaMismatch)
	}

	names := r.ChannelNames()
	if len(names) != r.NChan() {
		return signal.Signal{}, fmt.Errorf("%w: %d channel names for nchan %d", errs.ErrSchemaMismatch, len(names), r.NChan())
	}

	return signal.Signal{Data: r.Data, Channels: names, Times: r.Times}, nil
}

// Recording converts the raw data back into a source recording, suitable for
// the BrainVision writer. Channels of EEG kind or volt unit get unit "V".
//
// Returns:
//   - *source.Recording: Recording sharing the data matrix
//   - error: ErrSchemaMismatch or ErrInvalidSource
func (r *Raw) Recording() (*source.Recording, error) {
	sig, err := r.Signal()
	if err != nil {
		return nil, err
	}

	rec := &source.Recording{
		ChannelNames: sig.Channels,
		Units:        make([]string, sig.NChan()),
		SampleRate:   r.SFreq(),
		Data:         r.Data,
		Annotations:  r.Annotations,
	}

	chs, _ := r.Info.Records(metadata.ChannelListKey)
	for i := range rec.Units {
		rec.Units[i] = unitVolt
		if i < len(chs) {
			rec.Units[i] = channelUnit(chs[i])
		}
	}

	if date, err := r.Info.Text(keyMeasDate); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
			rec.StartTime = t
		}
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

func channelUnit(ch *metadata.Record) string {
	if unit, err := ch.Int(keyUnit); err == nil && unit == fiffUnitV {
		return unitVolt
	}
	if kind, err := ch.Int(keyKind); err == nil && kind == fiffEEGChannel {
		return unitVolt
	}

	return ""
}
