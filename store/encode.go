package store

import (
	"bytes"
	"fmt"

	"github.com/nixworks/nixworks/compress"
	"github.com/nixworks/nixworks/encoding"
	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/internal/hash"
	"github.com/nixworks/nixworks/internal/options"
	"github.com/nixworks/nixworks/internal/pool"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/section"
)

// Encode serializes f into container bytes.
//
// Every data array and multi-tag is validated first, so a File that breaks the
// dimension invariants is never persisted.
//
// Parameters:
//   - f: File to encode
//   - opts: WithCompression, WithBigEndian or WithLittleEndian
//
// Returns:
//   - []byte: Container bytes
//   - error: Option, validation, compression or size limit errors
func Encode(f *nix.File, opts ...Option) ([]byte, error) {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(cfg.header.Flag.Compression(), "payload")
	if err != nil {
		return nil, err
	}
	cfg.codec = codec

	var arrays []*nix.DataArray
	for _, b := range f.Blocks() {
		arrays = append(arrays, b.DataArrays()...)
	}
	if uint64(len(arrays)) > section.MaxArrayCount {
		return nil, fmt.Errorf("%w: %d arrays", errs.ErrArrayCountExceeded, len(arrays))
	}

	structure, err := nix.MarshalStructure(f)
	if err != nil {
		return nil, fmt.Errorf("encode structure: %w", err)
	}
	packedStructure, err := codec.Compress(structure)
	if err != nil {
		return nil, fmt.Errorf("compress structure: %w", err)
	}

	payloads := pool.GetFileBuffer()
	defer pool.PutFileBuffer(payloads)

	entries := make([]section.IndexEntry, 0, len(arrays))
	for _, da := range arrays {
		entry, err := cfg.appendArrayPayload(payloads, da)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	header := cfg.header
	header.ArrayCount = uint32(len(arrays)) //nolint:gosec // bounded by MaxArrayCount
	structureOffset := uint64(section.HeaderSize) + uint64(len(arrays))*section.IndexEntrySize
	payloadOffset := structureOffset + uint64(len(packedStructure))
	if payloadOffset > section.MaxSectionOffset {
		return nil, fmt.Errorf("%w: structure ends at %d", errs.ErrInvalidStructureOffset, payloadOffset)
	}
	header.StructureOffset = uint32(structureOffset)
	header.StructureLength = uint32(len(packedStructure)) //nolint:gosec // bounded by payloadOffset
	header.PayloadOffset = uint32(payloadOffset)
	header.StructureChecksum = hash.Checksum(structure)

	out := bytes.NewBuffer(make([]byte, 0, int(payloadOffset)+payloads.Len()))
	out.Write(header.Bytes())

	entryBuf := make([]byte, section.IndexEntrySize)
	for _, entry := range entries {
		entry.WriteToSlice(entryBuf, cfg.engine)
		out.Write(entryBuf)
	}
	out.Write(packedStructure)
	out.Write(payloads.Bytes())

	return out.Bytes(), nil
}

// appendArrayPayload encodes and compresses the values of da into dst and
// returns the index entry locating them.
func (c *EncoderConfig) appendArrayPayload(dst *pool.ByteBuffer, da *nix.DataArray) (section.IndexEntry, error) {
	if uint64(da.Size()) > uint64(^uint32(0)) {
		return section.IndexEntry{}, fmt.Errorf("%w: %q holds %d values", errs.ErrInvalidPayload, da.Name(), da.Size())
	}

	encoder := encoding.NewNumericRawEncoder(c.engine)
	defer encoder.Finish()

	encoder.WriteSlice(da.Data())
	raw := encoder.Bytes()

	packed, err := c.codec.Compress(raw)
	if err != nil {
		return section.IndexEntry{}, fmt.Errorf("compress %q: %w", da.Name(), err)
	}

	entry := section.NewIndexEntry(hash.ID(da.ID()), hash.Checksum(raw))
	entry.Offset = uint64(dst.Len())
	entry.Length = uint32(len(packed)) //nolint:gosec // a single array payload stays below 4GiB
	entry.Count = uint32(encoder.Len())

	// packed may alias the encoder buffer (NoOp codec); copy before Finish.
	_, _ = dst.Write(packed)

	return entry, nil
}
