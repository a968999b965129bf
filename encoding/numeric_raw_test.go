package encoding

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/errs"
)

func engines() map[string]endian.EndianEngine {
	return map[string]endian.EndianEngine{
		"little": endian.GetLittleEndianEngine(),
		"big":    endian.GetBigEndianEngine(),
	}
}

func TestNumericRawEncoder_Write(t *testing.T) {
	encoder := NewNumericRawEncoder(endian.GetLittleEndianEngine())
	defer encoder.Finish()

	encoder.Write(1.0)
	encoder.Write(-2.5)

	require.Equal(t, 2, encoder.Len())
	require.Equal(t, 16, encoder.Size())
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, encoder.Bytes()[:8])
}

func TestNumericRawEncoder_BigEndianLayout(t *testing.T) {
	encoder := NewNumericRawEncoder(endian.GetBigEndianEngine())
	defer encoder.Finish()

	encoder.Write(1.0)
	require.Equal(t, []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}, encoder.Bytes())
}

func TestNumericRaw_RoundTrip(t *testing.T) {
	values := []float64{0, 1e-6, -50e-6, math.Pi, math.Inf(1), math.MaxFloat64, math.SmallestNonzeroFloat64}

	for name, engine := range engines() {
		t.Run(name, func(t *testing.T) {
			encoder := NewNumericRawEncoder(engine)
			defer encoder.Finish()

			encoder.WriteSlice(values[:3])
			for _, v := range values[3:] {
				encoder.Write(v)
			}
			require.Equal(t, len(values), encoder.Len())

			decoder := NewNumericRawDecoder(engine)
			require.Equal(t, values, slices.Collect(decoder.All(encoder.Bytes(), encoder.Len())))

			dst := make([]float64, len(values))
			require.NoError(t, decoder.DecodeInto(dst, encoder.Bytes()))
			require.Equal(t, values, dst)

			v, ok := decoder.At(encoder.Bytes(), 3, encoder.Len())
			require.True(t, ok)
			require.Equal(t, math.Pi, v)
		})
	}
}

func TestNumericRaw_NaN(t *testing.T) {
	encoder := NewNumericRawEncoder(endian.GetLittleEndianEngine())
	defer encoder.Finish()
	encoder.Write(math.NaN())

	v, ok := NewNumericRawDecoder(endian.GetLittleEndianEngine()).At(encoder.Bytes(), 0, 1)
	require.True(t, ok)
	require.True(t, math.IsNaN(v))
}

func TestNumericRawDecoder_Bounds(t *testing.T) {
	decoder := NewNumericRawDecoder(endian.GetLittleEndianEngine())
	data := make([]byte, 16)

	_, ok := decoder.At(data, -1, 2)
	require.False(t, ok)
	_, ok = decoder.At(data, 2, 2)
	require.False(t, ok)
	_, ok = decoder.At(data, 2, 3)
	require.False(t, ok, "count larger than payload")

	require.Empty(t, slices.Collect(decoder.All(data, 3)))
	require.Empty(t, slices.Collect(decoder.All(data, 0)))

	err := decoder.DecodeInto(make([]float64, 3), data)
	require.ErrorIs(t, err, errs.ErrInvalidPayload)
}

func TestNumericRawEncoder_FinishPanics(t *testing.T) {
	encoder := NewNumericRawEncoder(endian.GetLittleEndianEngine())
	encoder.WriteSlice(nil)
	require.Equal(t, 0, encoder.Len())
	encoder.Finish()

	require.Panics(t, func() { encoder.Write(1) })
	require.Panics(t, func() { encoder.WriteSlice([]float64{1}) })
	require.Panics(t, func() { _ = encoder.Bytes() })
	require.Panics(t, func() { _ = encoder.Size() })
	require.Equal(t, 0, encoder.Len())
}
