// Package chunk manages the chunk lifecycle on both codec paths.
//
// A Writer accepts points one at a time, routing them through the predictor
// and range coder, and seals the accumulated bytes into a self-contained
// Block once the configured size is reached or the stream finalizes early.
// Sealing resets predictor history and all adaptive probability contexts to
// their initial values, so any chunk is decodable given only the stream
// header and that chunk's bytes. A Reader performs exactly that isolated
// decode.
package chunk

import (
	"fmt"

	"github.com/Karwot/lazstream/compress"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
	"github.com/Karwot/lazstream/internal/hash"
	"github.com/Karwot/lazstream/internal/pool"
	"github.com/Karwot/lazstream/internal/predictor"
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/rangecoder"
)

// State is the chunk writer lifecycle state.
type State uint8

const (
	// StateOpen means the chunk holds no points yet.
	StateOpen State = iota
	// StateFilling means the chunk is accepting points.
	StateFilling
	// StateSealed means the writer has been closed and accepts nothing more.
	StateSealed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateFilling:
		return "Filling"
	case StateSealed:
		return "Sealed"
	default:
		return "Unknown"
	}
}

// Block is one sealed chunk: a self-contained compressed byte block plus the
// metadata recorded in the chunk table. Bytes is owned by the receiver.
type Block struct {
	Bytes      []byte
	PointCount uint32
	Checksum   uint64
}

// Writer encodes one chunk at a time. After Seal it begins a fresh chunk
// with predictor and coder state reset to their initial values, so a single
// Writer encodes an entire stream's chunk sequence.
//
// The Writer is not safe for concurrent use.
type Writer struct {
	state     State
	maxPoints int
	count     int

	codec compress.Codec
	model *predictor.PointModel
	buf   *pool.ByteBuffer
	enc   *rangecoder.Encoder
}

// NewWriter creates a chunk writer for the given point format, configured
// chunk size and post-compression codec.
func NewWriter(pointFormat format.PointFormat, maxPoints int, codec compress.Codec) *Writer {
	buf := pool.GetChunkBuffer()

	return &Writer{
		state:     StateOpen,
		maxPoints: maxPoints,
		codec:     codec,
		model:     predictor.NewPointModel(pointFormat),
		buf:       buf,
		enc:       rangecoder.NewEncoder(buf),
	}
}

// State returns the writer's lifecycle state.
func (w *Writer) State() State {
	return w.state
}

// Count returns the number of points in the filling chunk.
func (w *Writer) Count() int {
	return w.count
}

// Full reports whether the filling chunk reached the configured chunk size.
func (w *Writer) Full() bool {
	return w.count >= w.maxPoints
}

// WritePoint routes one point through the predictor and coder. The caller
// seals full chunks; writing past the configured size is an internal misuse
// and reported as such.
func (w *Writer) WritePoint(pt las.Point) error {
	if w.state == StateSealed {
		return errs.ErrChunkSealed
	}
	if w.Full() {
		return fmt.Errorf("chunk full: %d points", w.count)
	}

	w.state = StateFilling
	w.model.EncodePoint(w.enc, pt)
	w.count++

	return nil
}

// Seal flushes the coder, applies post-compression and checksums the block.
// The writer then begins a fresh chunk with all mutable state reset to the
// initial values, not the values inherited from the sealed chunk.
func (w *Writer) Seal() (Block, error) {
	if w.state == StateSealed {
		return Block{}, errs.ErrChunkSealed
	}
	if w.count == 0 {
		return Block{}, errs.ErrEmptyChunk
	}

	w.enc.Flush()

	compressed, err := w.codec.Compress(w.buf.Bytes())
	if err != nil {
		return Block{}, fmt.Errorf("failed to compress chunk block: %w", err)
	}

	// Copy out of the pooled buffer: NoOp compression returns it as-is and
	// the buffer is reused for the next chunk.
	block := Block{
		Bytes:      append([]byte(nil), compressed...),
		PointCount: uint32(w.count), //nolint: gosec
	}
	block.Checksum = hash.Checksum(block.Bytes)

	w.buf.Reset()
	w.enc.Reset(w.buf)
	w.model.Reset()
	w.count = 0
	w.state = StateOpen

	return block, nil
}

// Close releases the writer's pooled buffer and seals it against further use.
// Sealing an aborted encode is invalid; callers simply Close and discard.
func (w *Writer) Close() {
	if w.state == StateSealed {
		return
	}

	pool.PutChunkBuffer(w.buf)
	w.buf = nil
	w.state = StateSealed
}
