// Package compress provides the payload codecs of the nixworks container file.
//
// Every data array is encoded to raw float64 bytes and then compressed on its
// own, and the msgpack structure section is compressed with the same codec.
// The codec is recorded in the file header, so a decoder never needs to be
// told which algorithm a file uses.
//
// # Supported Algorithms
//
//   - None: payloads are stored as encoded
//   - Deflate: klauspost/compress/flate at the default level (container default)
//   - Zstd: klauspost/compress/zstd, or libzstd via valyala/gozstd when built
//     with the gozstd tag
//   - S2: klauspost/compress/s2 block format
//   - LZ4: pierrec/lz4 block format
//
// # Usage
//
//	codec, err := compress.CreateCodec(format.CompressionDeflate, "values")
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//
// GetCodec returns shared instances; all built-in codecs are safe for
// concurrent use.
package compress
