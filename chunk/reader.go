package chunk

import (
	"fmt"

	"github.com/Karwot/lazstream/compress"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
	"github.com/Karwot/lazstream/internal/hash"
	"github.com/Karwot/lazstream/internal/predictor"
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/rangecoder"
)

// Reader decodes sealed chunk blocks in isolation. Decode-side predictor and
// coder state is reset identically to the encode path before every block, so
// blocks may be decoded in any order.
//
// The Reader is not safe for concurrent use; parallel chunk decode uses one
// Reader per worker.
type Reader struct {
	codec compress.Codec
	model *predictor.PointModel
}

// NewReader creates a chunk reader for the given point format and
// post-compression codec.
func NewReader(pointFormat format.PointFormat, codec compress.Codec) *Reader {
	return &Reader{
		codec: codec,
		model: predictor.NewPointModel(pointFormat),
	}
}

// DecodeBlock verifies and decodes one sealed chunk block into its declared
// number of points.
//
// Returns ErrCorruptStream (wrapped with detail) when the checksum does not
// match, post-decompression fails, or the range decoder reads past the end
// of the block.
func (r *Reader) DecodeBlock(block []byte, pointCount int, checksum uint64) ([]las.Point, error) {
	if hash.Checksum(block) != checksum {
		return nil, fmt.Errorf("%w: chunk checksum mismatch", errs.ErrCorruptStream)
	}

	raw, err := r.codec.Decompress(block)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk decompression failed: %v", errs.ErrCorruptStream, err)
	}

	r.model.Reset()
	dec := rangecoder.NewDecoder(raw)

	points := make([]las.Point, pointCount)
	for i := range points {
		points[i] = r.model.DecodePoint(dec)
	}

	if dec.Overrun() {
		return nil, fmt.Errorf("%w: chunk bit stream exhausted before %d points", errs.ErrCorruptStream, pointCount)
	}

	return points, nil
}
