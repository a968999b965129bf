package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/internal/pool"
)

// NumericRawEncoder writes float64 values in their IEEE 754 representation,
// 8 bytes per value, using the configured byte order.
type NumericRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*NumericRawEncoder)(nil)

// NewNumericRawEncoder creates a new raw float64 encoder.
//
// Parameters:
//   - engine: Endian engine for byte order, taken from the container flag
//
// Returns:
//   - *NumericRawEncoder: A new encoder backed by a pooled payload buffer
func NewNumericRawEncoder(engine endian.EndianEngine) *NumericRawEncoder {
	return &NumericRawEncoder{
		engine: engine,
		buf:    pool.GetPayloadBuffer(),
	}
}

// Write encodes a single value.
//
// Panics if Finish() has been called.
func (e *NumericRawEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++

	start := e.buf.Len()
	e.buf.ExtendOrGrow(8)
	e.engine.PutUint64(e.buf.Slice(start, start+8), math.Float64bits(val))
}

// WriteSlice encodes values with a single buffer growth.
//
// Panics if Finish() has been called.
func (e *NumericRawEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}
	e.count += len(values)

	start := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 8)

	for i, v := range values {
		offset := start + i*8
		e.engine.PutUint64(e.buf.Slice(offset, offset+8), math.Float64bits(v))
	}
}

// Bytes returns the encoded payload.
//
// Panics if Finish() has been called.
func (e *NumericRawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *NumericRawEncoder) Len() int {
	return e.count
}

// Size returns the encoded payload size in bytes.
//
// Panics if Finish() has been called.
func (e *NumericRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *NumericRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// NumericRawDecoder decodes payloads produced by NumericRawEncoder.
//
// The decoder is stateless and safe to share.
type NumericRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = NumericRawDecoder{}

// NewNumericRawDecoder creates a decoder for the given byte order.
func NewNumericRawDecoder(engine endian.EndianEngine) NumericRawDecoder {
	return NumericRawDecoder{engine: engine}
}

// All iterates over the first count values of data.
func (d NumericRawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 || len(data) < count*8 {
			return
		}

		for i := range count {
			start := i * 8
			if !yield(math.Float64frombits(d.engine.Uint64(data[start : start+8]))) {
				return
			}
		}
	}
}

// At returns the value at index.
func (d NumericRawDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 8
	if start+8 > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[start : start+8])), true
}

// DecodeInto decodes exactly len(dst) values from data into dst.
//
// Returns:
//   - error: ErrInvalidPayload if data does not hold exactly len(dst) values
func (d NumericRawDecoder) DecodeInto(dst []float64, data []byte) error {
	if len(data) != len(dst)*8 {
		return fmt.Errorf("%w: %d bytes for %d values", errs.ErrInvalidPayload, len(data), len(dst))
	}

	for i := range dst {
		dst[i] = math.Float64frombits(d.engine.Uint64(data[i*8 : i*8+8]))
	}

	return nil
}
