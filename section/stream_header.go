package section

import (
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
)

// StreamHeader represents the fixed-size header section at the start of a
// compressed point stream. The totals are written at finalize time once the
// point and chunk counts are known.
type StreamHeader struct {
	// Flag is the packed field for options, point format and compression.
	Flag StreamFlag // byte offset 0-3

	// ChunkSize is the configured number of points per chunk. Only the final
	// chunk of a stream may hold fewer points.
	ChunkSize uint32 // byte offset 4-7

	// PointCount is the total number of point records in the stream.
	PointCount uint64 // byte offset 8-15

	// ChunkCount is the number of sealed chunks in the stream.
	ChunkCount uint32 // byte offset 16-19

	// Bytes 20-31 are reserved and must be zero.
}

// NewStreamHeader creates a header for the given point format and chunk size.
// The totals are set when the encoder finishes.
func NewStreamHeader(pointFormat format.PointFormat, chunkSize uint32) *StreamHeader {
	flag := NewStreamFlag()
	flag.SetFormat(pointFormat)

	return &StreamHeader{
		Flag:      flag,
		ChunkSize: chunkSize,
	}
}

// Parse parses the header from a byte slice.
//
// Returns ErrInvalidHeaderSize if data is not exactly HeaderSize bytes, or a
// flag validation error.
func (h *StreamHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The Options field itself is always little-endian; it determines the
	// endianness of everything after it.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.PointFormat = data[2]
	h.Flag.CompressionType = data[3]

	engine := h.Flag.GetEndianEngine()
	h.ChunkSize = engine.Uint32(data[4:8])
	h.PointCount = engine.Uint64(data[8:16])
	h.ChunkCount = engine.Uint32(data[16:20])

	return h.Flag.Validate()
}

// Bytes serializes the StreamHeader into a byte slice.
func (h *StreamHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.PointFormat
	b[3] = h.Flag.CompressionType

	engine := h.Flag.GetEndianEngine()
	engine.PutUint32(b[4:8], h.ChunkSize)
	engine.PutUint64(b[8:16], h.PointCount)
	engine.PutUint32(b[16:20], h.ChunkCount)

	return b
}

// ParseStreamHeader parses a StreamHeader from the start of a byte slice.
func ParseStreamHeader(data []byte) (StreamHeader, error) {
	if len(data) < HeaderSize {
		return StreamHeader{}, errs.ErrInvalidHeaderSize
	}

	h := StreamHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return StreamHeader{}, err
	}

	return h, nil
}
