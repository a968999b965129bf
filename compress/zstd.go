package compress

// ZstdCompressor provides Zstandard compression.
//
// The default build uses the pure Go klauspost/compress implementation; building
// with the gozstd tag (and cgo) switches to the libzstd binding. Both produce
// standard zstd frames, so files are readable by either build.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
