package section

import (
	"encoding/binary"
	"fmt"

	"github.com/nixworks/nixworks/errs"
)

// Header represents the fixed-size header section at the start of a container file.
type Header struct {
	// Flag is a packed field for the options, magic number and compression.
	Flag Flag // byte offset 0-2
	// Version is the container format version.
	Version uint8 // byte offset 3
	// ArrayCount is the number of data arrays stored in the file.
	ArrayCount uint32 // byte offset 4-7
	// IndexOffset is the byte offset to the start of the array index section.
	IndexOffset uint32 // byte offset 8-11
	// StructureOffset is the byte offset to the compressed structure payload.
	StructureOffset uint32 // byte offset 12-15
	// StructureLength is the compressed length of the structure payload.
	StructureLength uint32 // byte offset 16-19
	// PayloadOffset is the byte offset to the first array payload.
	// Index entry offsets are relative to it.
	PayloadOffset uint32 // byte offset 20-23
	// StructureChecksum is the xxHash64 of the uncompressed structure payload.
	StructureChecksum uint64 // byte offset 24-31
}

// NewHeader creates a new Header with default flags.
// Counts and offsets are filled in by the encoder once all sections are known.
func NewHeader() *Header {
	return &Header{
		Flag:        NewFlag(),
		Version:     FormatVersion,
		IndexOffset: IndexOffsetOffset,
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, or flag validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options are always little-endian; they carry the byte order of the rest.
	h.Flag.Options = binary.LittleEndian.Uint16(data[0:2])
	h.Flag.CompressionType = data[2]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	h.Version = data[3]
	if h.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidHeaderFlags, h.Version)
	}

	engine := h.Flag.GetEndianEngine()
	h.ArrayCount = engine.Uint32(data[4:8])
	h.IndexOffset = engine.Uint32(data[8:12])
	h.StructureOffset = engine.Uint32(data[12:16])
	h.StructureLength = engine.Uint32(data[16:20])
	h.PayloadOffset = engine.Uint32(data[20:24])
	h.StructureChecksum = engine.Uint64(data[24:32])

	return h.validateOffsets()
}

// validateOffsets checks that the sections appear in layout order.
func (h *Header) validateOffsets() error {
	if h.IndexOffset != IndexOffsetOffset {
		return errs.ErrInvalidIndexOffsets
	}

	indexEnd := uint64(h.IndexOffset) + uint64(h.ArrayCount)*IndexEntrySize
	if uint64(h.StructureOffset) != indexEnd {
		return errs.ErrInvalidStructureOffset
	}

	if uint64(h.PayloadOffset) != uint64(h.StructureOffset)+uint64(h.StructureLength) {
		return errs.ErrInvalidStructureOffset
	}

	return nil
}

// Bytes serializes the Header into a byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	binary.LittleEndian.PutUint16(b[0:2], h.Flag.Options)
	b[2] = h.Flag.CompressionType
	b[3] = h.Version
	engine.PutUint32(b[4:8], h.ArrayCount)
	engine.PutUint32(b[8:12], h.IndexOffset)
	engine.PutUint32(b[12:16], h.StructureOffset)
	engine.PutUint32(b[16:20], h.StructureLength)
	engine.PutUint32(b[20:24], h.PayloadOffset)
	engine.PutUint64(b[24:32], h.StructureChecksum)

	return b
}

// ParseHeader parses a Header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize, flag validation or offset errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
