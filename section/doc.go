// Package section defines the fixed-size binary sections of the nixworks
// container file: the 32-byte header and the 32-byte array index entries.
//
// File layout:
//
//	[Header 32B][Index entries 32B each][Structure payload][Array payloads]
//
// The first two header bytes are always little-endian so that a reader can
// find the endianness bit before decoding anything else. Every other integer
// follows the byte order recorded in that bit.
package section
