package signal

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/nix"
)

// WriteSingle stores the whole matrix as one array named SingleArrayName.
//
// The array keeps the matrix orientation. The channel axis gets a Set
// dimension labelled with the channel names and the other axis a Range
// dimension over the sample times.
//
// Parameters:
//   - b: Block receiving the array
//   - g: Group the array is added to; may be nil
//   - sig: Signal to store
//
// Returns:
//   - *nix.DataArray: The created array
//   - error: ErrShapeMismatch when the matrix does not fit the channel and
//     time axes, or a container error
func WriteSingle(b *nix.Block, g *nix.Group, sig Signal) (*nix.DataArray, error) {
	chanAxis, _, err := sig.axes()
	if err != nil {
		return nil, err
	}

	r, c := sig.Data.Dims()
	da, err := b.CreateDataArray(SingleArrayName, RawDataType, []int{r, c}, rowMajor(sig.Data))
	if err != nil {
		return nil, err
	}
	da.SetUnit(Unit)

	for axis := 0; axis < 2; axis++ {
		if axis == chanAxis {
			da.AppendSetDimension(sig.Channels...)
			continue
		}
		if err := appendTimeDimension(da, sig.Times); err != nil {
			return nil, err
		}
	}

	if g != nil {
		if err := g.AddDataArray(da); err != nil {
			return nil, err
		}
	}

	return da, nil
}

// WriteSplit stores one rank-1 array per channel, sliced along the channel
// axis and named after the channel.
//
// Every array carries only the Range time dimension. Channel names are made
// safe with nix.SafeName.
//
// Parameters:
//   - b: Block receiving the arrays
//   - g: Group the arrays are added to; may be nil
//   - sig: Signal to store
//
// Returns:
//   - []*nix.DataArray: The created arrays in channel order
//   - error: ErrShapeMismatch when the matrix does not fit the channel and
//     time axes, or a container error
func WriteSplit(b *nix.Block, g *nix.Group, sig Signal) ([]*nix.DataArray, error) {
	chanAxis, _, err := sig.axes()
	if err != nil {
		return nil, err
	}

	arrays := make([]*nix.DataArray, 0, len(sig.Channels))
	for i, name := range sig.Channels {
		var data []float64
		if chanAxis == 0 {
			data = slices.Clone(sig.Data.RawRowView(i))
		} else {
			data = mat.Col(nil, i, sig.Data)
		}

		da, err := b.CreateDataArray(nix.SafeName(name), RawDataType, []int{len(data)}, data)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		da.SetUnit(Unit)
		if err := appendTimeDimension(da, sig.Times); err != nil {
			return nil, err
		}
		if g != nil {
			if err := g.AddDataArray(da); err != nil {
				return nil, err
			}
		}
		arrays = append(arrays, da)
	}

	return arrays, nil
}

func appendTimeDimension(da *nix.DataArray, times []float64) error {
	dim, err := da.AppendRangeDimension(slices.Clone(times))
	if err != nil {
		return err
	}
	dim.Label = TimeLabel
	dim.Unit = TimeUnit

	return nil
}

// rowMajor copies m into a fresh row-major slice.
func rowMajor(m *mat.Dense) []float64 {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		copy(data[i*c:(i+1)*c], m.RawRowView(i))
	}

	return data
}
