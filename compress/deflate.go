package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// DeflateCompressor provides raw DEFLATE compression at the default level.
//
// This is the container default: it mirrors the DeflateNormal block
// compression NIX files are usually written with.
type DeflateCompressor struct{}

var _ Codec = (*DeflateCompressor)(nil)

var deflateWriterPool = sync.Pool{
	New: func() any {
		w, err := flate.NewWriter(nil, flate.DefaultCompression)
		if err != nil {
			panic(fmt.Sprintf("failed to create deflate writer for pool: %v", err))
		}
		return w
	},
}

// NewDeflateCompressor creates a new DEFLATE compressor.
func NewDeflateCompressor() DeflateCompressor {
	return DeflateCompressor{}
}

// Compress compresses data with a pooled flate writer.
func (c DeflateCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(data) / 2)

	w, _ := deflateWriterPool.Get().(*flate.Writer)
	defer deflateWriterPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a raw DEFLATE stream.
func (c DeflateCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}

	return out, nil
}
