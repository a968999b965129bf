package store

import (
	"fmt"

	"github.com/nixworks/nixworks/compress"
	"github.com/nixworks/nixworks/encoding"
	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/internal/hash"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/section"
)

// Decode parses container bytes produced by Encode.
//
// Checksums of the structure and of every array payload are verified.
//
// Parameters:
//   - data: Container bytes
//
// Returns:
//   - *nix.File: Decoded file with all array values loaded
//   - error: Header, index, checksum or payload errors from the errs package
func Decode(data []byte) (*nix.File, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if uint64(len(data)) < uint64(header.PayloadOffset) {
		return nil, fmt.Errorf("%w: file ends before payload offset %d", errs.ErrInvalidStructureOffset, header.PayloadOffset)
	}

	engine := header.Flag.GetEndianEngine()
	codec, err := compress.CreateCodec(header.Flag.Compression(), "payload")
	if err != nil {
		return nil, err
	}

	entries := make([]section.IndexEntry, header.ArrayCount)
	for i := range entries {
		start := int(header.IndexOffset) + i*section.IndexEntrySize
		entries[i], err = section.ParseIndexEntry(data[start:start+section.IndexEntrySize], engine)
		if err != nil {
			return nil, err
		}
	}

	packedStructure := data[header.StructureOffset:header.PayloadOffset]
	structure, err := codec.Decompress(packedStructure)
	if err != nil {
		return nil, fmt.Errorf("%w: structure: %w", errs.ErrInvalidPayload, err)
	}
	if hash.Checksum(structure) != header.StructureChecksum {
		return nil, fmt.Errorf("%w: structure", errs.ErrChecksumMismatch)
	}

	f, err := nix.UnmarshalStructure(structure)
	if err != nil {
		return nil, err
	}

	var arrays []*nix.DataArray
	for _, b := range f.Blocks() {
		arrays = append(arrays, b.DataArrays()...)
	}
	if len(arrays) != len(entries) {
		return nil, fmt.Errorf("%w: %d index entries for %d arrays", errs.ErrInvalidIndexOffsets, len(entries), len(arrays))
	}

	payloads := data[header.PayloadOffset:]
	decoder := encoding.NewNumericRawDecoder(engine)
	for i, da := range arrays {
		if err := loadArray(da, entries[i], payloads, codec, decoder); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func loadArray(da *nix.DataArray, entry section.IndexEntry, payloads []byte, codec compress.Codec, decoder encoding.NumericRawDecoder) error {
	if entry.ID != hash.ID(da.ID()) {
		return fmt.Errorf("%w: entry does not belong to %q", errs.ErrInvalidIndexOffsets, da.Name())
	}
	if size := uint64(len(payloads)); entry.Offset > size || uint64(entry.Length) > size-entry.Offset {
		return fmt.Errorf("%w: %q payload at %d+%d exceeds %d", errs.ErrInvalidIndexOffsets, da.Name(), entry.Offset, entry.Length, len(payloads))
	}
	if int(entry.Count) != da.Size() {
		return fmt.Errorf("%w: %q has %d values, shape needs %d", errs.ErrInvalidPayload, da.Name(), entry.Count, da.Size())
	}

	raw, err := codec.Decompress(payloads[entry.Offset:entry.End()])
	if err != nil {
		return fmt.Errorf("%w: %q: %w", errs.ErrInvalidPayload, da.Name(), err)
	}
	if hash.Checksum(raw) != entry.Checksum {
		return fmt.Errorf("%w: %q", errs.ErrChecksumMismatch, da.Name())
	}

	values := make([]float64, entry.Count)
	if err := decoder.DecodeInto(values, raw); err != nil {
		return fmt.Errorf("%q: %w", da.Name(), err)
	}

	return da.SetData(values)
}
