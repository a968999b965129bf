package section

import (
	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
)

// Flag represents the packed option and compression fields of the header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 1-3 are reserved for future use, must be set to 0.
	// Bit 4-15 are magic number to identify the container format:
	//   - 0x4E10 (0b0100_1110_0001_0000): container format v1
	Options uint16

	// CompressionType is the codec applied to the structure section and to
	// every array payload.
	CompressionType uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone):    {},
	uint8(format.CompressionZstd):    {},
	uint8(format.CompressionS2):      {},
	uint8(format.CompressionLZ4):     {},
	uint8(format.CompressionDeflate): {},
}

// NewFlag creates a new little-endian Flag using deflate compression.
func NewFlag() Flag {
	return Flag{
		Options:         MagicContainerV1Opt,
		CompressionType: uint8(format.CompressionDeflate),
	}
}

// IsLittleEndian returns whether the data is little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the data is big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Compression returns the payload compression type.
func (f Flag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the payload compression type.
func (f *Flag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// Validate checks the magic number, the reserved bits and the compression type.
func (f Flag) Validate() error {
	if f.GetMagicNumber() != MagicContainerV1Opt {
		return errs.ErrInvalidHeaderFlags
	}

	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validCompressions[f.CompressionType]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
