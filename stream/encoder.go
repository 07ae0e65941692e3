package stream

import (
	"fmt"

	"github.com/Karwot/lazstream/chunk"
	"github.com/Karwot/lazstream/compress"
	"github.com/Karwot/lazstream/endian"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/internal/options"
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/section"
)

// Encoder compresses point records into the chunked stream format.
//
// Points are appended one at a time; a chunk is sealed transparently every
// ChunkSize points, and Finish seals any open chunk and appends the chunk
// table. After Finish the encoder is unusable; an aborted encode is simply
// dropped and must never be finished.
//
// Note: The Encoder is NOT thread-safe. For concurrent encoding across
// chunks use EncodePoints, which gives each worker an isolated chunk writer.
type Encoder struct {
	*EncoderConfig

	writer   *chunk.Writer
	blocks   []chunk.Block
	total    uint64
	finished bool
}

// NewEncoder creates a new Encoder with the given options.
//
// Available options:
//   - WithPointFormat(format.Format0..Format3)
//   - WithChunkSize(n)
//   - WithChunkCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - WithLittleEndian() / WithBigEndian()
//
// Returns an error if the configuration is invalid.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg, codec, err := buildEncoderConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		EncoderConfig: cfg,
		writer:        chunk.NewWriter(cfg.PointFormat(), cfg.ChunkSize(), codec),
	}, nil
}

// AppendPoint routes one point record through the codec.
//
// Returns ErrFormatMismatch if the record's format tag does not match the
// stream's declared point format; the record is rejected before any bytes
// are written. Returns ErrEncoderFinished after Finish.
func (e *Encoder) AppendPoint(pt las.Point) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}

	if pt.Format != e.PointFormat() {
		return fmt.Errorf("%w: record has %s, stream declares %s",
			errs.ErrFormatMismatch, pt.Format, e.PointFormat())
	}

	if err := e.writer.WritePoint(pt); err != nil {
		return err
	}
	e.total++

	if e.writer.Full() {
		block, err := e.writer.Seal()
		if err != nil {
			return err
		}
		e.blocks = append(e.blocks, block)
	}

	return nil
}

// PointCount returns the number of points appended so far.
func (e *Encoder) PointCount() int {
	return int(e.total) //nolint: gosec
}

// Finish seals any open chunk, appends the chunk table and trailing table
// offset, and returns the complete stream bytes. The encoder cannot be
// reused afterwards.
//
// A stream with zero points finishes to a valid header, an empty chunk
// table and a trailer, and decodes to an empty point set.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrEncoderFinished
	}
	e.finished = true

	if e.writer.Count() > 0 {
		block, err := e.writer.Seal()
		if err != nil {
			return nil, err
		}
		e.blocks = append(e.blocks, block)
	}
	e.writer.Close()

	header := *e.header // shallow copy keeps the config header immutable
	header.PointCount = e.total
	header.ChunkCount = uint32(len(e.blocks)) //nolint: gosec

	return assembleStream(&header, e.blocks, e.engine), nil
}

// buildEncoderConfig applies options and creates the chunk codec.
func buildEncoderConfig(opts ...EncoderOption) (*EncoderConfig, compress.Codec, error) {
	cfg := NewEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, nil, err
	}

	codec, err := compress.CreateCodec(cfg.header.Flag.Compression())
	if err != nil {
		return nil, nil, err
	}

	return cfg, codec, nil
}

// assembleStream lays out header, chunk blocks, chunk table and trailer into
// one exact-size buffer.
func assembleStream(header *section.StreamHeader, blocks []chunk.Block, engine endian.EndianEngine) []byte {
	payloadSize := 0
	for _, b := range blocks {
		payloadSize += len(b.Bytes)
	}

	tableOffset := section.HeaderSize + payloadSize
	total := tableOffset + len(blocks)*section.ChunkEntrySize + section.TrailerSize

	out := make([]byte, total)
	offset := copy(out, header.Bytes())

	for _, b := range blocks {
		offset += copy(out[offset:], b.Bytes)
	}

	for _, b := range blocks {
		entry := section.ChunkEntry{
			ByteLength: uint32(len(b.Bytes)), //nolint: gosec
			PointCount: b.PointCount,
			Checksum:   b.Checksum,
		}
		offset = entry.WriteToSlice(out, offset, engine)
	}

	engine.PutUint64(out[offset:offset+8], uint64(tableOffset))

	return out
}
