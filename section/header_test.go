package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
)

func validHeader(arrays uint32, structLen uint32) *Header {
	h := NewHeader()
	h.ArrayCount = arrays
	h.StructureOffset = HeaderSize + arrays*IndexEntrySize
	h.StructureLength = structLen
	h.PayloadOffset = h.StructureOffset + structLen
	h.StructureChecksum = 0xDEADBEEFCAFEF00D

	return h
}

func TestNewHeader(t *testing.T) {
	header := NewHeader()

	require.NotNil(t, header)
	require.Equal(t, uint32(IndexOffsetOffset), header.IndexOffset)
	require.Equal(t, uint32(0), header.ArrayCount)
	require.Equal(t, uint8(FormatVersion), header.Version)
	require.Equal(t, uint16(MagicContainerV1Opt), header.Flag.GetMagicNumber())
	require.True(t, header.Flag.IsLittleEndian())
	require.Equal(t, format.CompressionDeflate, header.Flag.Compression())
}

func TestHeader_Parse(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		original := validHeader(3, 120)

		parsed := &Header{}
		err := parsed.Parse(original.Bytes())

		require.NoError(t, err)
		require.Equal(t, *original, *parsed)
	})

	t.Run("Big endian", func(t *testing.T) {
		original := validHeader(2, 64)
		original.Flag.WithBigEndian()
		original.Flag.SetCompression(format.CompressionZstd)

		data := original.Bytes()
		// Options stay little-endian regardless of the byte order flag.
		require.Equal(t, byte(0x11), data[0])
		require.Equal(t, byte(0x4E), data[1])

		parsed, err := ParseHeader(data)
		require.NoError(t, err)
		require.True(t, parsed.Flag.IsBigEndian())
		require.Equal(t, format.CompressionZstd, parsed.Flag.Compression())
		require.Equal(t, original.PayloadOffset, parsed.PayloadOffset)
		require.Equal(t, original.StructureChecksum, parsed.StructureChecksum)
	})

	t.Run("Invalid size", func(t *testing.T) {
		header := &Header{}
		err := header.Parse([]byte{1, 2, 3})

		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Invalid magic number", func(t *testing.T) {
		data := validHeader(0, 10).Bytes()
		data[0] = 0x00
		data[1] = 0xEA

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Reserved bits set", func(t *testing.T) {
		data := validHeader(0, 10).Bytes()
		data[0] |= 0x04

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Unknown compression", func(t *testing.T) {
		data := validHeader(0, 10).Bytes()
		data[2] = 0x09

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Unsupported version", func(t *testing.T) {
		data := validHeader(0, 10).Bytes()
		data[3] = 2

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Structure offset out of order", func(t *testing.T) {
		h := validHeader(2, 10)
		h.StructureOffset += 4

		_, err := ParseHeader(h.Bytes())
		require.ErrorIs(t, err, errs.ErrInvalidStructureOffset)
	})

	t.Run("Index offset moved", func(t *testing.T) {
		h := validHeader(1, 10)
		h.IndexOffset = 64

		_, err := ParseHeader(h.Bytes())
		require.ErrorIs(t, err, errs.ErrInvalidIndexOffsets)
	})
}

func TestFlag_Endianness(t *testing.T) {
	flag := NewFlag()
	require.True(t, flag.IsLittleEndian())
	require.False(t, flag.IsBigEndian())

	flag.WithBigEndian()
	require.True(t, flag.IsBigEndian())
	require.Equal(t, uint16(MagicContainerV1Opt), flag.GetMagicNumber())
	require.NoError(t, flag.Validate())

	flag.WithLittleEndian()
	require.True(t, flag.IsLittleEndian())
}

func TestIndexEntry_RoundTrip(t *testing.T) {
	for _, h := range []*Header{validHeader(1, 1), func() *Header {
		b := validHeader(1, 1)
		b.Flag.WithBigEndian()
		return b
	}()} {
		engine := h.Flag.GetEndianEngine()
		entry := NewIndexEntry(0x0102030405060708, 0x1122334455667788)
		entry.Offset = 4096
		entry.Length = 512
		entry.Count = 1200

		data := entry.Bytes(engine)
		require.Len(t, data, IndexEntrySize)

		parsed, err := ParseIndexEntry(data, engine)
		require.NoError(t, err)
		require.Equal(t, entry, parsed)
		require.Equal(t, uint64(4608), parsed.End())
	}
}

func TestParseIndexEntry_InvalidSize(t *testing.T) {
	_, err := ParseIndexEntry(make([]byte, 16), NewFlag().GetEndianEngine())
	require.ErrorIs(t, err, errs.ErrInvalidIndexEntrySize)
}
