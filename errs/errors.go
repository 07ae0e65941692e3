// Package errs defines the sentinel errors shared across the lazstream packages.
//
// Errors fall into two groups: stream integrity errors reported by the decoder
// (ErrCorruptStream, ErrTruncatedStream) and usage errors reported by the
// encoder or random-access API (ErrFormatMismatch, ErrIndexOutOfRange and the
// configuration errors). Callers should match with errors.Is since most call
// sites wrap these sentinels with positional detail.
package errs

import "errors"

var (
	// ErrFormatMismatch is returned when a point record's format tag disagrees
	// with the point format declared by the stream. The record is rejected
	// before any bytes are written.
	ErrFormatMismatch = errors.New("point format mismatch")

	// ErrIndexOutOfRange is returned by random access beyond the stream's
	// point count. The decoder remains usable after this error.
	ErrIndexOutOfRange = errors.New("point index out of range")

	// ErrCorruptStream is returned when the chunk table arithmetic is
	// inconsistent, a chunk checksum does not match, or the entropy decoder
	// reaches an unrepresentable state. The stream is unusable afterwards;
	// no partial recovery is attempted because adaptive state desync
	// invalidates all subsequent bits in the chunk.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrTruncatedStream is returned when the byte source ends before the
	// chunk table size or offset indicates it should.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrEncoderFinished is returned when appending to or finishing an
	// encoder whose Finish method already completed.
	ErrEncoderFinished = errors.New("encoder already finished")

	// ErrInvalidPointFormat is returned for point formats outside 0-3.
	ErrInvalidPointFormat = errors.New("invalid point format")

	// ErrInvalidChunkSize is returned for a non-positive configured chunk size.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidCompression is returned for an unknown chunk compression type.
	ErrInvalidCompression = errors.New("invalid compression type")

	// ErrInvalidHeaderSize is returned when a header buffer is shorter than
	// the fixed header size.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidChunkEntrySize is returned when a chunk table entry buffer is
	// shorter than the fixed entry size.
	ErrInvalidChunkEntrySize = errors.New("invalid chunk table entry size")

	// ErrChunkSealed is returned when writing a point to a chunk writer that
	// has already been sealed.
	ErrChunkSealed = errors.New("chunk already sealed")

	// ErrEmptyChunk is returned when sealing a chunk that holds no points.
	ErrEmptyChunk = errors.New("chunk holds no points")
)
