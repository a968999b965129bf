package encoding

import "iter"

// ColumnarEncoder accumulates a flat column of values into one payload.
type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the size in bytes of the encoded values.
	Size() int

	// Finish returns buffer resources to the pool.
	//
	// After calling Finish(), the encoder is no longer usable. Any subsequent call
	// to Write(), WriteSlice(), Bytes() or Size() panics.
	//
	//	encoder := NewNumericRawEncoder(engine)
	//	defer encoder.Finish()
	//
	//	encoder.WriteSlice(values)
	//	payload := bytes.Clone(encoder.Bytes())
	Finish()

	// Write appends a single value.
	Write(data T)

	// WriteSlice appends a slice of values.
	WriteSlice(values []T)
}

// ColumnarDecoder reads values back from a payload produced by the matching encoder.
type ColumnarDecoder[T comparable] interface {
	// All returns an iterator over the first count values of data.
	//
	// If data holds fewer than count values the iterator yields nothing.
	All(data []byte, count int) iter.Seq[T]

	// At returns the value at index, or false when index is outside [0, count).
	At(data []byte, index int, count int) (T, bool)
}
