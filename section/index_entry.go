package section

import (
	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/errs"
)

// IndexEntry locates the payload of one data array.
type IndexEntry struct {
	// ID is the xxHash64 of the data array id.
	ID uint64 // byte offset 0-7
	// Checksum is the xxHash64 of the uncompressed, encoded payload.
	Checksum uint64 // byte offset 8-15
	// Offset is the payload position relative to the header PayloadOffset.
	Offset uint64 // byte offset 16-23
	// Length is the compressed payload length in bytes.
	Length uint32 // byte offset 24-27
	// Count is the number of float64 elements in the payload.
	Count uint32 // byte offset 28-31
}

// NewIndexEntry creates an IndexEntry for the array with the given id hash.
func NewIndexEntry(id uint64, checksum uint64) IndexEntry {
	return IndexEntry{ID: id, Checksum: checksum}
}

// WriteToSlice writes the entry into data using the given endian engine.
//
// Parameters:
//   - data: Destination slice, at least IndexEntrySize bytes
//   - engine: Byte order of the container
func (e IndexEntry) WriteToSlice(data []byte, engine endian.EndianEngine) {
	_ = data[IndexEntrySize-1] // bounds check hint

	engine.PutUint64(data[0:8], e.ID)
	engine.PutUint64(data[8:16], e.Checksum)
	engine.PutUint64(data[16:24], e.Offset)
	engine.PutUint32(data[24:28], e.Length)
	engine.PutUint32(data[28:32], e.Count)
}

// Bytes serializes the entry into a new slice.
func (e IndexEntry) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, IndexEntrySize)
	e.WriteToSlice(b, engine)

	return b
}

// ParseIndexEntry parses an IndexEntry from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the entry (must be exactly 32 bytes)
//   - engine: Byte order of the container
//
// Returns:
//   - IndexEntry: Parsed entry
//   - error: ErrInvalidIndexEntrySize if data has the wrong length
func ParseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, error) {
	if len(data) != IndexEntrySize {
		return IndexEntry{}, errs.ErrInvalidIndexEntrySize
	}

	return IndexEntry{
		ID:       engine.Uint64(data[0:8]),
		Checksum: engine.Uint64(data[8:16]),
		Offset:   engine.Uint64(data[16:24]),
		Length:   engine.Uint32(data[24:28]),
		Count:    engine.Uint32(data[28:32]),
	}, nil
}

// End returns the end position of the payload relative to the payload offset.
func (e IndexEntry) End() uint64 {
	return e.Offset + uint64(e.Length)
}
