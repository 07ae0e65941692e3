package section

import (
	"github.com/Karwot/lazstream/endian"
	"github.com/Karwot/lazstream/errs"
)

// ChunkEntry records one sealed chunk in the chunk table. It is a fixed size
// of 16 bytes. Block offsets are not stored: they are reconstructed by
// accumulating byte lengths from the fixed header size, which keeps offsets
// strictly increasing and non-overlapping by construction.
type ChunkEntry struct {
	// ByteLength is the size in bytes of the sealed chunk block, coder flush
	// and post-compression included.
	//
	// Offset: 0, Size: 4 bytes
	ByteLength uint32

	// PointCount is the number of point records in the chunk. Equal to the
	// configured chunk size for every chunk except possibly the last.
	//
	// Offset: 4, Size: 4 bytes
	PointCount uint32

	// Checksum is the xxHash64 of the sealed chunk block bytes, verified
	// before a chunk is decoded.
	//
	// Offset: 8, Size: 8 bytes
	Checksum uint64

	// Offset is the absolute byte offset of the chunk block in the stream.
	// This field is not stored on disk; the decoder reconstructs it from the
	// cumulative byte lengths.
	Offset int

	// StartIndex is the absolute index of the chunk's first point. This field
	// is not stored on disk; the decoder reconstructs it from the cumulative
	// point counts.
	StartIndex int
}

// WriteToSlice writes the entry's on-disk fields to a pre-allocated slice and
// returns the next write position.
func (e *ChunkEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], e.ByteLength)
	engine.PutUint32(data[offset+4:offset+8], e.PointCount)
	engine.PutUint64(data[offset+8:offset+16], e.Checksum)

	return offset + ChunkEntrySize
}

// Bytes returns the entry as a byte slice using the specified endian engine.
func (e *ChunkEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [ChunkEntrySize]byte // stack allocation
	engine.PutUint32(b[0:4], e.ByteLength)
	engine.PutUint32(b[4:8], e.PointCount)
	engine.PutUint64(b[8:16], e.Checksum)

	return b[:]
}

// ParseChunkEntry parses a ChunkEntry from a byte slice. The in-memory
// Offset and StartIndex fields are left zero for the caller to fill.
func ParseChunkEntry(data []byte, engine endian.EndianEngine) (ChunkEntry, error) {
	if len(data) < ChunkEntrySize {
		return ChunkEntry{}, errs.ErrInvalidChunkEntrySize
	}

	return ChunkEntry{
		ByteLength: engine.Uint32(data[0:4]),
		PointCount: engine.Uint32(data[4:8]),
		Checksum:   engine.Uint64(data[8:16]),
	}, nil
}
