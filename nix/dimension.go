package nix

import (
	"github.com/nixworks/nixworks/format"
)

// Dimension describes one axis of a data array.
type Dimension interface {
	// DimensionType returns Sample, Range or Set.
	DimensionType() format.DimensionType
	// Index returns the 1-based axis position within the array.
	Index() int
}

// SampledDimension is a regularly sampled axis: the i-th tick is
// Offset + i*Interval.
type SampledDimension struct {
	index    int
	Interval float64
	Offset   float64
	Unit     string
	Label    string
}

var _ Dimension = (*SampledDimension)(nil)

func (d *SampledDimension) DimensionType() format.DimensionType { return format.DimensionSample }
func (d *SampledDimension) Index() int                          { return d.index }

// PositionAt returns the axis position of sample i.
func (d *SampledDimension) PositionAt(i int) float64 {
	return d.Offset + float64(i)*d.Interval
}

// Axis returns the first n tick positions.
func (d *SampledDimension) Axis(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = d.PositionAt(i)
	}

	return out
}

// RangeDimension is an axis with explicit, ascending ticks.
//
// An alias range dimension has no ticks of its own; its ticks are the values
// of the one-dimensional array it belongs to.
type RangeDimension struct {
	index int
	owner *DataArray
	ticks []float64
	Alias bool
	Unit  string
	Label string
}

var _ Dimension = (*RangeDimension)(nil)

func (d *RangeDimension) DimensionType() format.DimensionType { return format.DimensionRange }
func (d *RangeDimension) Index() int                          { return d.index }

// Ticks returns the tick vector, resolving alias dimensions through their array.
func (d *RangeDimension) Ticks() []float64 {
	if d.Alias && d.owner != nil {
		return d.owner.data
	}

	return d.ticks
}

// SetDimension is a categorical axis with optional string labels.
type SetDimension struct {
	index  int
	Labels []string
}

var _ Dimension = (*SetDimension)(nil)

func (d *SetDimension) DimensionType() format.DimensionType { return format.DimensionSet }
func (d *SetDimension) Index() int                          { return d.index }
