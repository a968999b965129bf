package signal

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
	"github.com/nixworks/nixworks/nix"
)

// Merge rebuilds the signal matrix from arrays written by WriteSingle or
// WriteSplit.
//
// A single array is returned as stored: rank 2 keeps its shape and rank 1
// becomes one row. Several arrays are rank-1 channels and are stacked as rows
// in the given order, which is the channel order.
//
// Parameters:
//   - arrays: Signal arrays in stored order
//
// Returns:
//   - *mat.Dense: A matrix owning a copy of the values
//   - error: ErrSchemaMismatch for an empty list, ErrShapeMismatch for
//     arrays that do not stack or have an empty axis
func Merge(arrays []*nix.DataArray) (*mat.Dense, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("%w: no %q arrays", errs.ErrSchemaMismatch, RawDataType)
	}
	for _, da := range arrays {
		if slices.Contains(da.Shape(), 0) {
			return nil, fmt.Errorf("%w: %q has an empty axis in %v", errs.ErrShapeMismatch, da.Name(), da.Shape())
		}
	}

	if len(arrays) == 1 {
		da := arrays[0]
		switch shape := da.Shape(); len(shape) {
		case 1:
			return mat.NewDense(1, shape[0], slices.Clone(da.Data())), nil
		case 2:
			return mat.NewDense(shape[0], shape[1], slices.Clone(da.Data())), nil
		default:
			return nil, fmt.Errorf("%w: %q has rank %d", errs.ErrShapeMismatch, da.Name(), len(shape))
		}
	}

	n := arrays[0].Size()
	out := mat.NewDense(len(arrays), n, nil)
	for i, da := range arrays {
		if da.Rank() != 1 || da.Size() != n {
			return nil, fmt.Errorf("%w: channel %q has shape %v, want [%d]", errs.ErrShapeMismatch, da.Name(), da.Shape(), n)
		}
		out.SetRow(i, da.Data())
	}

	return out, nil
}

// Read rebuilds the signal written by WriteSingle or WriteSplit.
//
// Channel names come from the Set dimension of a single array, or from the
// array names in split mode. Times come from the Range time dimension. The
// matrix keeps the stored orientation.
//
// Returns:
//   - Signal: Data, channel names and times
//   - error: ErrSchemaMismatch or ErrShapeMismatch
func Read(arrays []*nix.DataArray) (Signal, error) {
	data, err := Merge(arrays)
	if err != nil {
		return Signal{}, err
	}

	sig := Signal{Data: data}
	if len(arrays) > 1 {
		for _, da := range arrays {
			sig.Channels = append(sig.Channels, da.Name())
		}
	}

	for _, dim := range arrays[0].Dimensions() {
		switch d := dim.(type) {
		case *nix.SetDimension:
			if len(arrays) == 1 {
				sig.Channels = slices.Clone(d.Labels)
			}
		case *nix.RangeDimension:
			sig.Times = slices.Clone(d.Ticks())
		case *nix.SampledDimension:
			sig.Times = d.Axis(arrays[0].Shape()[d.Index()-1])
		}
	}

	if sig.Times == nil {
		return Signal{}, fmt.Errorf("%w: %q has no %s dimension", errs.ErrSchemaMismatch, arrays[0].Name(), format.DimensionRange)
	}

	return sig, nil
}
