// Package compress provides the optional per-chunk post-compression codecs.
//
// The range coder already removes most redundancy from point residuals, but
// sparse or highly regular clouds leave byte-level structure that a general
// compressor can still exploit. Compression is applied per sealed chunk, not
// to the whole stream, so random access to any chunk is preserved.
package compress

import (
	"fmt"

	"github.com/Karwot/lazstream/format"
)

// maxDecompressedSize caps how large a single chunk block may claim to be,
// guarding decoders against corrupt size prefixes.
const maxDecompressedSize = 128 * 1024 * 1024

// Compressor compresses one sealed chunk's range-coded byte block.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses the per-chunk compression.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original block.
	// It returns an error if the data is corrupted or was compressed with an
	// incompatible algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the specified
// chunk compression type.
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid chunk compression: %s", compressionType)
	}
}
