package nix

import (
	"fmt"
	"slices"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
)

// DataArray is a named multi-dimensional float64 buffer with a unit and one
// Dimension per axis.
type DataArray struct {
	entity
	block *Block

	unit  string
	label string
	shape []int
	data  []float64
	dims  []Dimension

	metadata *Section
}

// Block returns the block owning the array.
func (da *DataArray) Block() *Block {
	return da.block
}

// Unit returns the physical unit of the values.
func (da *DataArray) Unit() string {
	return da.unit
}

// SetUnit sets the physical unit of the values.
func (da *DataArray) SetUnit(unit string) {
	da.unit = unit
}

// Label returns the value label.
func (da *DataArray) Label() string {
	return da.label
}

// SetLabel sets the value label.
func (da *DataArray) SetLabel(label string) {
	da.label = label
}

// Shape returns a copy of the array extents.
func (da *DataArray) Shape() []int {
	return slices.Clone(da.shape)
}

// Rank returns the number of axes.
func (da *DataArray) Rank() int {
	return len(da.shape)
}

// Size returns the total number of values.
func (da *DataArray) Size() int {
	return len(da.data)
}

// DataType returns the element type of the array, always DataTypeDouble.
func (da *DataArray) DataType() format.DataType {
	return format.DataTypeDouble
}

// Data returns the row-major values. The slice is shared with the array.
func (da *DataArray) Data() []float64 {
	return da.data
}

// SetData replaces the values while keeping the shape.
//
// Returns:
//   - error: ErrDataLengthMismatch if len(data) differs from the shape size
func (da *DataArray) SetData(data []float64) error {
	size, err := shapeSize(da.shape)
	if err != nil {
		return err
	}
	if len(data) != size {
		return fmt.Errorf("%w: %q has %d values for shape %v", errs.ErrDataLengthMismatch, da.name, len(data), da.shape)
	}

	da.data = data

	return nil
}

// Row returns the values at index i of the first axis as a shared sub-slice.
// For a rank-1 array Row(0) is the whole array.
func (da *DataArray) Row(i int) ([]float64, error) {
	if len(da.shape) == 1 {
		if i != 0 {
			return nil, fmt.Errorf("%w: row %d of rank-1 array %q", errs.ErrShapeMismatch, i, da.name)
		}

		return da.data, nil
	}

	if i < 0 || i >= da.shape[0] {
		return nil, fmt.Errorf("%w: row %d outside [0, %d) of %q", errs.ErrShapeMismatch, i, da.shape[0], da.name)
	}

	stride := len(da.data) / da.shape[0]

	return da.data[i*stride : (i+1)*stride], nil
}

// At returns the value at the given multi-dimensional index.
func (da *DataArray) At(idx ...int) (float64, error) {
	if len(idx) != len(da.shape) {
		return 0, fmt.Errorf("%w: %d indices for rank %d", errs.ErrShapeMismatch, len(idx), len(da.shape))
	}

	flat := 0
	for axis, i := range idx {
		if i < 0 || i >= da.shape[axis] {
			return 0, fmt.Errorf("%w: index %d outside axis %d of %q", errs.ErrShapeMismatch, i, axis, da.name)
		}
		flat = flat*da.shape[axis] + i
	}

	return da.data[flat], nil
}

// Dimensions returns the axis descriptors in axis order.
func (da *DataArray) Dimensions() []Dimension {
	return da.dims
}

// AppendSampledDimension appends a regularly sampled axis.
func (da *DataArray) AppendSampledDimension(interval float64) (*SampledDimension, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: sampling interval %g must be positive", errs.ErrInvalidDimension, interval)
	}

	d := &SampledDimension{index: len(da.dims) + 1, Interval: interval}
	da.dims = append(da.dims, d)

	return d, nil
}

// AppendRangeDimension appends an axis with explicit ticks.
//
// Returns:
//   - error: ErrInvalidDimension if ticks are not sorted ascending
func (da *DataArray) AppendRangeDimension(ticks []float64) (*RangeDimension, error) {
	if !slices.IsSorted(ticks) {
		return nil, fmt.Errorf("%w: range ticks of %q are not sorted", errs.ErrInvalidDimension, da.name)
	}

	d := &RangeDimension{index: len(da.dims) + 1, owner: da, ticks: ticks}
	da.dims = append(da.dims, d)

	return d, nil
}

// AppendAliasRangeDimension appends a range axis whose ticks are the array's
// own values. Only rank-1 arrays with sorted values can carry one.
func (da *DataArray) AppendAliasRangeDimension() (*RangeDimension, error) {
	if len(da.shape) != 1 || len(da.dims) != 0 {
		return nil, fmt.Errorf("%w: alias range dimension needs an undimensioned rank-1 array", errs.ErrInvalidDimension)
	}
	if !slices.IsSorted(da.data) {
		return nil, fmt.Errorf("%w: values of %q are not sorted", errs.ErrInvalidDimension, da.name)
	}

	d := &RangeDimension{index: 1, owner: da, Alias: true}
	da.dims = append(da.dims, d)

	return d, nil
}

// AppendSetDimension appends a categorical axis with optional labels.
func (da *DataArray) AppendSetDimension(labels ...string) *SetDimension {
	d := &SetDimension{index: len(da.dims) + 1, Labels: labels}
	da.dims = append(da.dims, d)

	return d
}

// Validate checks that there is one dimension per axis and that range ticks
// and set labels match the extent of their axis.
func (da *DataArray) Validate() error {
	if len(da.dims) != len(da.shape) {
		return fmt.Errorf("%w: %q has %d dimensions for rank %d", errs.ErrShapeMismatch, da.name, len(da.dims), len(da.shape))
	}

	for axis, d := range da.dims {
		extent := da.shape[axis]
		switch dim := d.(type) {
		case *RangeDimension:
			if n := len(dim.Ticks()); n != extent {
				return fmt.Errorf("%w: %q axis %d has %d ticks for extent %d", errs.ErrShapeMismatch, da.name, axis, n, extent)
			}
		case *SetDimension:
			if n := len(dim.Labels); n != 0 && n != extent {
				return fmt.Errorf("%w: %q axis %d has %d labels for extent %d", errs.ErrShapeMismatch, da.name, axis, n, extent)
			}
		}
	}

	return nil
}

// Metadata returns the section linked to the array, or nil.
func (da *DataArray) Metadata() *Section {
	return da.metadata
}

// SetMetadata links sec as the array metadata. A nil section clears the link.
func (da *DataArray) SetMetadata(sec *Section) {
	da.metadata = sec
}
