package compress

import (
	"fmt"

	"github.com/nixworks/nixworks/format"
)

// Compressor compresses one container payload: the structure section or the
// encoded values of a single data array.
type Compressor interface {
	// Compress compresses data and returns the result.
	//
	// The returned slice is owned by the caller unless the implementation
	// documents otherwise (see NoOpCompressor). The input is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// Implementations must be safe for concurrent use; the store decodes array
// payloads independently of each other.
type Decompressor interface {
	// Decompress decompresses data and returns the original bytes.
	//
	// Error conditions:
	//   - data is corrupted or truncated
	//   - data was produced by a different algorithm
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a Codec for the given compression type.
//
// Parameters:
//   - compressionType: None, Zstd, S2, LZ4 or Deflate
//   - target: Description of the payload, used in error messages
//
// Returns:
//   - Codec: Codec for the requested algorithm
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionDeflate:
		return NewDeflateCompressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:    NewNoOpCompressor(),
	format.CompressionZstd:    NewZstdCompressor(),
	format.CompressionS2:      NewS2Compressor(),
	format.CompressionLZ4:     NewLZ4Compressor(),
	format.CompressionDeflate: NewDeflateCompressor(),
}

// GetCodec returns the shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
