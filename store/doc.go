// Package store persists a nix.File as a single binary container file.
//
// File layout:
//
//	[Header 32B][Index entries 32B each][Structure payload][Array payloads]
//
// The structure payload is the msgpack encoded object graph (blocks, groups,
// multi-tags, array descriptors, sections and properties) without array
// values. Each data array is encoded as raw float64 values in the byte order
// of the header and compressed on its own. Index entries carry the xxHash64
// of the array id and a checksum of the uncompressed payload, which Decode
// verifies.
//
// Save writes to a temporary file next to the destination and renames it into
// place, so a failed conversion never leaves a valid-looking container behind.
//
//	if err := store.Save("recording.nix", f, store.WithCompression(format.CompressionZstd)); err != nil {
//	    return err
//	}
//	f, err := store.Open("recording.nix")
package store
