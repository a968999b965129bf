// Package hash provides the xxHash64 helpers used by the container format.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a data array id.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Checksum computes the xxHash64 of an encoded payload.
func Checksum(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}
