// Package encoding converts data array values to and from their raw byte
// payloads.
//
// Data arrays are stored as flat row-major float64 columns in the byte order
// recorded in the container header. Compression is applied afterwards by the
// compress package.
package encoding
