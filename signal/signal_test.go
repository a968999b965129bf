package signal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
	"github.com/nixworks/nixworks/nix"
)

// ==============================================================================
// Helper Functions
// ==============================================================================

func newTestBlock(t *testing.T) (*nix.Block, *nix.Group) {
	t.Helper()

	f := nix.NewFile()
	b, err := f.CreateBlock("EEG Data Block", "Recording")
	require.NoError(t, err)
	g, err := b.CreateGroup("Raw Data Group", "EEG Channels")
	require.NoError(t, err)

	return b, g
}

func testSignal() Signal {
	return Signal{
		Data: mat.NewDense(3, 4, []float64{
			1, 2, 3, 4,
			5, 6, 7, 8,
			9, 10, 11, 12,
		}),
		Channels: []string{"C1", "C2", "C3"},
		Times:    Times(4, 2, 0),
	}
}

// ==============================================================================
// Axis Tests
// ==============================================================================

func TestTimes(t *testing.T) {
	require.Equal(t, []float64{0, 0.5, 1, 1.5}, Times(4, 2, 0))
	require.Equal(t, []float64{10, 10.25}, Times(2, 4, 10))
	require.Empty(t, Times(0, 4, 0))
}

func TestFindChannelAxis(t *testing.T) {
	axis, err := FindChannelAxis([]int{3, 100}, 3)
	require.NoError(t, err)
	require.Equal(t, 0, axis)

	axis, err = FindChannelAxis([]int{100, 3}, 3)
	require.NoError(t, err)
	require.Equal(t, 1, axis)

	_, err = FindChannelAxis([]int{5, 5}, 6)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

// ==============================================================================
// Write Tests
// ==============================================================================

func TestWriteSingle(t *testing.T) {
	b, g := newTestBlock(t)
	sig := testSignal()

	da, err := WriteSingle(b, g, sig)
	require.NoError(t, err)
	require.Equal(t, SingleArrayName, da.Name())
	require.Equal(t, RawDataType, da.Type())
	require.Equal(t, "V", da.Unit())
	require.Equal(t, []int{3, 4}, da.Shape())
	require.NoError(t, da.Validate())

	dims := da.Dimensions()
	require.Len(t, dims, 2)
	set, ok := dims[0].(*nix.SetDimension)
	require.True(t, ok)
	require.Equal(t, []string{"C1", "C2", "C3"}, set.Labels)
	rng, ok := dims[1].(*nix.RangeDimension)
	require.True(t, ok)
	require.Equal(t, []float64{0, 0.5, 1, 1.5}, rng.Ticks())
	require.Equal(t, "time", rng.Label)
	require.Equal(t, "s", rng.Unit)

	require.Len(t, g.DataArrays(), 1)
}

func TestWriteSingle_TimeMajor(t *testing.T) {
	b, _ := newTestBlock(t)
	sig := testSignal()
	sig.Data = mat.DenseCopyOf(sig.Data.T())

	da, err := WriteSingle(b, nil, sig)
	require.NoError(t, err)
	require.Equal(t, []int{4, 3}, da.Shape())
	require.Equal(t, format.DimensionRange, da.Dimensions()[0].DimensionType())
	require.Equal(t, format.DimensionSet, da.Dimensions()[1].DimensionType())
	require.NoError(t, da.Validate())
}

func TestWriteSplit(t *testing.T) {
	b, g := newTestBlock(t)

	arrays, err := WriteSplit(b, g, testSignal())
	require.NoError(t, err)
	require.Len(t, arrays, 3)

	for i, da := range arrays {
		require.Equal(t, []string{"C1", "C2", "C3"}[i], da.Name())
		require.Equal(t, RawDataType, da.Type())
		require.Equal(t, "V", da.Unit())
		require.Equal(t, 1, da.Rank())
		require.Len(t, da.Dimensions(), 1)

		rng, ok := da.Dimensions()[0].(*nix.RangeDimension)
		require.True(t, ok)
		require.Equal(t, []float64{0.0, 0.5, 1.0, 1.5}, rng.Ticks())
		require.NoError(t, da.Validate())
	}
	require.Equal(t, []float64{5, 6, 7, 8}, arrays[1].Data())
	require.Len(t, g.DataArrays(), 3)
}

func TestWriteSplit_ChannelNamesWithSlash(t *testing.T) {
	b, _ := newTestBlock(t)
	sig := testSignal()
	sig.Channels = []string{"A1/A2", "C2", "C3"}

	arrays, err := WriteSplit(b, nil, sig)
	require.NoError(t, err)
	require.Equal(t, "A1|A2", arrays[0].Name())
}

func TestWrite_ShapeMismatch(t *testing.T) {
	b, _ := newTestBlock(t)
	sig := Signal{
		Data:     mat.NewDense(5, 5, nil),
		Channels: []string{"a", "b", "c", "d", "e", "f"},
		Times:    Times(5, 1, 0),
	}

	_, err := WriteSingle(b, nil, sig)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = WriteSplit(b, nil, sig)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
	require.Empty(t, b.DataArrays())

	sig = testSignal()
	sig.Times = Times(5, 2, 0)
	_, err = WriteSingle(b, nil, sig)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

// ==============================================================================
// Merge / Read Tests
// ==============================================================================

func TestMerge_InvertsSplit(t *testing.T) {
	shapes := [][2]int{{1, 1}, {3, 4}, {7, 2}, {2, 9}}
	for _, shape := range shapes {
		c, n := shape[0], shape[1]
		data := make([]float64, c*n)
		for i := range data {
			data[i] = float64(i)*0.5 - 3
		}
		names := make([]string, c)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		m := mat.NewDense(c, n, data)

		b, g := newTestBlock(t)
		_, err := WriteSplit(b, g, Signal{Data: m, Channels: names, Times: Times(n, 100, 0)})
		require.NoError(t, err)

		got, err := Merge(Arrays(g.DataArrays()))
		require.NoError(t, err)
		require.True(t, mat.Equal(m, got), "shape %v", shape)
	}
}

func TestMerge_SingleVerbatim(t *testing.T) {
	b, g := newTestBlock(t)
	sig := testSignal()
	_, err := WriteSingle(b, g, sig)
	require.NoError(t, err)

	got, err := Merge(g.DataArrays())
	require.NoError(t, err)
	require.True(t, mat.Equal(sig.Data, got))
}

func TestMerge_Errors(t *testing.T) {
	_, err := Merge(nil)
	require.ErrorIs(t, err, errs.ErrSchemaMismatch)

	b, _ := newTestBlock(t)
	a, err := b.CreateDataArray("a", RawDataType, []int{3}, nil)
	require.NoError(t, err)
	c, err := b.CreateDataArray("c", RawDataType, []int{4}, nil)
	require.NoError(t, err)

	_, err = Merge([]*nix.DataArray{a, c})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	empty, err := b.CreateDataArray("empty", RawDataType, []int{0}, nil)
	require.NoError(t, err)
	_, err = Merge([]*nix.DataArray{empty})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	noTimes, err := b.CreateDataArray("no-times", RawDataType, []int{3, 0}, nil)
	require.NoError(t, err)
	_, err = Merge([]*nix.DataArray{noTimes})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	e1, err := b.CreateDataArray("e1", RawDataType, []int{0}, nil)
	require.NoError(t, err)
	_, err = Merge([]*nix.DataArray{empty, e1})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestRead(t *testing.T) {
	for _, split := range []bool{false, true} {
		b, g := newTestBlock(t)
		sig := testSignal()
		var err error
		if split {
			_, err = WriteSplit(b, g, sig)
		} else {
			_, err = WriteSingle(b, g, sig)
		}
		require.NoError(t, err)

		got, err := Read(Arrays(g.DataArrays()))
		require.NoError(t, err)
		require.Equal(t, sig.Channels, got.Channels)
		require.Equal(t, sig.Times, got.Times)
		require.True(t, mat.Equal(sig.Data, got.Data))
		require.Equal(t, 3, got.NChan())
		require.Equal(t, 4, got.NTimes())
	}
}

func TestArrays_FiltersByType(t *testing.T) {
	b, _ := newTestBlock(t)
	a, err := b.CreateDataArray("a", RawDataType, []int{1}, nil)
	require.NoError(t, err)
	_, err = b.CreateDataArray("m", "Multidimensional Metadata", []int{1}, nil)
	require.NoError(t, err)

	require.Equal(t, []*nix.DataArray{a}, Arrays(b.DataArrays()))
}
