package nwb

import (
	"fmt"
	"time"

	"github.com/nixworks/nixworks/errs"
)

// SeriesKind identifies the NWB class of a time series.
type SeriesKind uint8

const (
	KindTimeSeries SeriesKind = iota
	KindVoltageClampSeries
	KindCurrentClampSeries
)

var seriesTypes = [...]string{
	KindTimeSeries:         "nwb.TimeSeries",
	KindVoltageClampSeries: "nwb.icephys.VoltageClampSeries",
	KindCurrentClampSeries: "nwb.icephys.CurrentClampSeries",
}

// String returns the data array type used for the kind.
func (k SeriesKind) String() string {
	if int(k) < len(seriesTypes) {
		return seriesTypes[k]
	}

	return fmt.Sprintf("SeriesKind(%d)", k)
}

// ParseSeriesKind maps a data array type back to its kind.
func ParseSeriesKind(typ string) (SeriesKind, error) {
	for k, s := range seriesTypes {
		if s == typ {
			return SeriesKind(k), nil
		}
	}

	return KindTimeSeries, fmt.Errorf("%w: series type %q", errs.ErrUnknownValueKind, typ)
}

// Electrode is the intracellular electrode of a clamp series.
type Electrode struct {
	Name        string
	Description string
}

// TimeSeries is one acquisition series. Timing is given either by Rate and
// StartingTime or by explicit Timestamps along the first axis.
type TimeSeries struct {
	Name string
	Kind SeriesKind
	// Data holds the samples in row-major order.
	Data []float64
	// Shape is the extent of every axis; nil means one axis of len(Data).
	Shape []int
	Unit  string
	// Rate is the sampling rate in Hz.
	Rate float64
	// StartingTime is the time of the first sample, in StartingTimeUnit.
	StartingTime     float64
	StartingTimeUnit string
	Timestamps       []float64
	// Electrode is set for voltage clamp series.
	Electrode *Electrode
}

func (ts *TimeSeries) shape() []int {
	if ts.Shape != nil {
		return ts.Shape
	}

	return []int{len(ts.Data)}
}

// File is the in-memory content of an NWB file relevant to conversion.
type File struct {
	Identifier         string
	SessionDescription string
	SessionStartTime   time.Time
	Acquisition        []*TimeSeries
}
