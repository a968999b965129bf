package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	result := CheckEndianness()

	var probe uint32 = 0x01020304
	buf := make([]byte, 4)
	binary.NativeEndian.PutUint32(buf, probe)

	if buf[0] == 0x04 {
		require.Equal(t, binary.LittleEndian, result)
		require.True(t, IsNativeLittleEndian())
	} else {
		require.Equal(t, binary.BigEndian, result)
		require.False(t, IsNativeLittleEndian())
	}
}

func TestCompareNativeEndian(t *testing.T) {
	little := CompareNativeEndian(GetLittleEndianEngine())
	big := CompareNativeEndian(GetBigEndianEngine())

	require.NotEqual(t, little, big, "exactly one engine must match the host")
}

func TestEngines_Float64RoundTrip(t *testing.T) {
	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		buf := engine.AppendUint64(nil, math.Float64bits(-12.5e-6))
		require.Len(t, buf, 8)
		require.Equal(t, -12.5e-6, math.Float64frombits(engine.Uint64(buf)))
	}

	le := GetLittleEndianEngine().AppendUint16(nil, 0x4E10)
	be := GetBigEndianEngine().AppendUint16(nil, 0x4E10)
	require.Equal(t, []byte{0x10, 0x4E}, le)
	require.Equal(t, []byte{0x4E, 0x10}, be)
}
