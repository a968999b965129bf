package signal

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/nix"
)

const (
	// RawDataType tags every array holding signal samples.
	RawDataType = "Raw Data"
	// SingleArrayName names the array written by WriteSingle.
	SingleArrayName = "EEG Data"
	// Unit is the physical unit of stored samples.
	Unit = "V"
	// TimeLabel and TimeUnit describe the time axis.
	TimeLabel = "time"
	TimeUnit  = "s"
)

// Signal is a channel x time matrix, in either orientation, with its axes.
type Signal struct {
	// Data holds the samples. One axis must have len(Channels) entries,
	// the other len(Times).
	Data *mat.Dense
	// Channels are the channel names in matrix order.
	Channels []string
	// Times are the sample times in seconds, sorted ascending.
	Times []float64
}

// NChan returns the number of channels.
func (s Signal) NChan() int {
	return len(s.Channels)
}

// NTimes returns the number of samples per channel.
func (s Signal) NTimes() int {
	return len(s.Times)
}

// Times returns n ticks spaced 1/rate seconds apart starting at offset.
// rate must be positive.
func Times(n int, rate, offset float64) []float64 {
	ticks := make([]float64, n)
	for i := range ticks {
		ticks[i] = float64(i) / rate
	}
	floats.AddConst(offset, ticks)

	return ticks
}

// FindChannelAxis returns the first axis of shape whose extent equals nchan.
//
// Returns:
//   - int: Index of the channel axis
//   - error: ErrShapeMismatch if no axis matches
func FindChannelAxis(shape []int, nchan int) (int, error) {
	for i, n := range shape {
		if n == nchan {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: no axis of shape %v matches %d channels", errs.ErrShapeMismatch, shape, nchan)
}

// axes locates the channel axis of sig and checks the time axis against its
// ticks.
func (s Signal) axes() (chanAxis, timeAxis int, err error) {
	if s.Data == nil {
		return 0, 0, fmt.Errorf("%w: signal has no data", errs.ErrShapeMismatch)
	}

	r, c := s.Data.Dims()
	shape := []int{r, c}
	chanAxis, err = FindChannelAxis(shape, len(s.Channels))
	if err != nil {
		return 0, 0, err
	}

	timeAxis = 1 - chanAxis
	if shape[timeAxis] != len(s.Times) {
		return 0, 0, fmt.Errorf("%w: time axis of shape %v has %d samples, want %d",
			errs.ErrShapeMismatch, shape, shape[timeAxis], len(s.Times))
	}

	return chanAxis, timeAxis, nil
}

// Arrays returns the arrays typed RawDataType, keeping their order.
func Arrays(arrays []*nix.DataArray) []*nix.DataArray {
	var out []*nix.DataArray
	for _, da := range arrays {
		if da.Type() == RawDataType {
			out = append(out, da)
		}
	}

	return out
}
