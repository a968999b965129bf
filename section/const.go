package section

import "math"

const (
	// Bit masks
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	ReservedBitsMask = 0x000E // Mask for reserved bits (bits 1-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicContainerV1Opt identifies version 1 of the nixworks container format.
	MagicContainerV1Opt = 0x4E10

	// FormatVersion is written to the version byte of every header.
	FormatVersion = 1
)

// offset and section sizes in the container file
const (
	HeaderSize        = 32             // fixed header size in bytes
	IndexEntrySize    = 32             // fixed index entry size in bytes
	IndexOffsetOffset = HeaderSize     // byte offset where index section starts
	MaxArrayCount     = math.MaxUint32 // maximum number of data arrays per file
	MaxSectionOffset  = math.MaxUint32 // maximum header offset value
)
