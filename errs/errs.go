// Package errs defines the sentinel errors returned by nixworks packages.
//
// Call sites wrap these with fmt.Errorf("%w: ...") to add context, so callers
// should always compare with errors.Is.
package errs

import "errors"

// Container file format errors.
var (
	ErrInvalidHeaderSize      = errors.New("invalid header size")
	ErrInvalidHeaderFlags     = errors.New("invalid header flags")
	ErrInvalidIndexEntrySize  = errors.New("invalid index entry size")
	ErrInvalidIndexOffsets    = errors.New("invalid index entry offsets")
	ErrInvalidStructureOffset = errors.New("invalid structure payload offset")
	ErrInvalidPayload         = errors.New("invalid array payload")
	ErrChecksumMismatch       = errors.New("array payload checksum mismatch")
	ErrArrayCountExceeded     = errors.New("data array count exceeded")
)

// Object model errors.
var (
	ErrNotFound           = errors.New("object not found")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidDimension   = errors.New("invalid dimension")
	ErrMixedValueTypes    = errors.New("property values have mixed types")
	ErrUnsupportedValue   = errors.New("unsupported property value type")
	ErrEmptyProperty      = errors.New("property has no values")
	ErrDataLengthMismatch = errors.New("data length does not match shape")
)

// Conversion errors.
var (
	// ErrSchemaMismatch is returned when a container lacks a well-known
	// block, group, section or property expected by an adapter.
	ErrSchemaMismatch = errors.New("container schema mismatch")

	// ErrUnknownValueKind is returned when a metadata property carries a
	// declared type tag outside the closed registry.
	ErrUnknownValueKind = errors.New("unknown value kind")

	// ErrShapeMismatch is returned when no axis of a signal matrix matches
	// the channel count, or when dimensions disagree with array extents.
	ErrShapeMismatch = errors.New("shape mismatch")

	ErrEventLengthMismatch = errors.New("event field lengths differ")
	ErrUnknownExtension    = errors.New("unknown file extension")
	ErrInvalidSource       = errors.New("invalid source recording")
	ErrInvalidUnit         = errors.New("invalid unit")
)
