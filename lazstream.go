// Package lazstream provides lossless compression for LAS-style LiDAR point
// records, organized as independently decodable chunks for random access.
//
// Records are compressed with a per-field predictive model feeding an
// adaptive binary range coder. Each field of a point is predicted from the
// preceding points of its chunk (linear extrapolation for coordinates and
// GPS time, previous value for the scalar fields) and only the residual is
// coded. Chunks are sealed every ChunkSize points with all predictor and
// coder state reset, so any chunk decodes given just the stream header and
// its own bytes. An optional general-purpose codec (zstd, s2 or lz4) is
// applied per chunk after range coding.
//
// A stream is laid out as a fixed 32-byte header, the chunk blocks, a chunk
// table of 16-byte entries and a trailing 8-byte table offset. The chunk
// table carries per-chunk byte lengths, point counts and xxHash64 checksums;
// block offsets and absolute start indices are reconstructed from the
// cumulative sums.
//
// Basic usage:
//
//	enc, err := lazstream.NewEncoder(
//		lazstream.WithPointFormat(format.Format1),
//		lazstream.WithChunkSize(50_000),
//	)
//	for _, pt := range points {
//		if err := enc.AppendPoint(pt); err != nil { ... }
//	}
//	data, err := enc.Finish()
//
//	dec, err := lazstream.NewDecoder(data)
//	pt, err := dec.PointAt(12345)
//	for i, pt := range dec.All() { ... }
package lazstream

import (
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/stream"
)

// Encoder compresses point records into the chunked stream format.
type Encoder = stream.Encoder

// Decoder reads an encoded stream and serves points by index or chunk.
type Decoder = stream.Decoder

// EncoderOption configures an Encoder.
type EncoderOption = stream.EncoderOption

// DecoderOption configures a Decoder.
type DecoderOption = stream.DecoderOption

// NewEncoder creates an encoder with the given options. See the stream
// package for the available options.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	return stream.NewEncoder(opts...)
}

// NewDecoder validates the stream framing and returns a decoder over it.
func NewDecoder(data []byte, opts ...DecoderOption) (*Decoder, error) {
	return stream.NewDecoder(data, opts...)
}

// EncodePoints encodes a complete point slice, compressing chunks
// concurrently. The output is byte-identical to a sequential encode.
func EncodePoints(points []las.Point, opts ...EncoderOption) ([]byte, error) {
	return stream.EncodePoints(points, opts...)
}

// Encoder options re-exported for convenience.
var (
	WithPointFormat      = stream.WithPointFormat
	WithChunkSize        = stream.WithChunkSize
	WithChunkCompression = stream.WithChunkCompression
	WithLittleEndian     = stream.WithLittleEndian
	WithBigEndian        = stream.WithBigEndian
	WithChunkCacheSize   = stream.WithChunkCacheSize
)
