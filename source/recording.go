package source

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/events"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/signal"
)

// Recording is a decoded multi-channel recording.
type Recording struct {
	// ChannelNames are the channel labels in data row order.
	ChannelNames []string
	// Units are the physical units declared by the file, one per channel.
	// Data is already rescaled to volts for voltage units.
	Units []string
	// SampleRate is the common sampling rate in Hz.
	SampleRate float64
	// Data holds channels x samples.
	Data *mat.Dense
	// Annotations are the markers found in the file.
	Annotations []events.Event
	// StartTime is the measurement start; zero when unknown.
	StartTime time.Time
	// Header carries reader-specific header fields.
	Header *metadata.Record
}

// NChan returns the number of channels.
func (r *Recording) NChan() int {
	return len(r.ChannelNames)
}

// NSamples returns the number of samples per channel.
func (r *Recording) NSamples() int {
	if r.Data == nil {
		return 0
	}
	_, c := r.Data.Dims()

	return c
}

// Times returns the sample times in seconds, starting at zero.
func (r *Recording) Times() []float64 {
	return signal.Times(r.NSamples(), r.SampleRate, 0)
}

// Validate checks that names, units, rate and data agree.
//
// Returns:
//   - error: ErrInvalidSource describing the first inconsistency
func (r *Recording) Validate() error {
	if r.Data == nil || len(r.ChannelNames) == 0 {
		return fmt.Errorf("%w: no channels", errs.ErrInvalidSource)
	}
	if rows, _ := r.Data.Dims(); rows != len(r.ChannelNames) {
		return fmt.Errorf("%w: %d data rows for %d channels", errs.ErrInvalidSource, rows, len(r.ChannelNames))
	}
	if len(r.Units) != 0 && len(r.Units) != len(r.ChannelNames) {
		return fmt.Errorf("%w: %d units for %d channels", errs.ErrInvalidSource, len(r.Units), len(r.ChannelNames))
	}
	if r.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %g", errs.ErrInvalidSource, r.SampleRate)
	}

	return nil
}

// Signal returns the recording as a channel x time signal.
func (r *Recording) Signal() signal.Signal {
	return signal.Signal{Data: r.Data, Channels: r.ChannelNames, Times: r.Times()}
}

var voltFactors = map[string]float64{
	"V":     1,
	"mV":    1e-3,
	"uV":    1e-6,
	"µV":    1e-6, // micro sign
	"μV":    1e-6, // greek mu
	"\xb5V": 1e-6,
	"nV":    1e-9,
}

// VoltFactor returns the factor converting values in unit to volts. ok is
// false for units that are not voltages.
func VoltFactor(unit string) (factor float64, ok bool) {
	factor, ok = voltFactors[strings.TrimSpace(unit)]
	return factor, ok
}
