package stream

import (
	"fmt"
	"math"

	"github.com/Karwot/lazstream/compress"
	"github.com/Karwot/lazstream/endian"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
	"github.com/Karwot/lazstream/internal/options"
	"github.com/Karwot/lazstream/section"
)

// EncoderConfig holds the stream-wide settings fixed at encoder creation:
// point format, chunk size, byte order and chunk post-compression.
type EncoderConfig struct {
	header *section.StreamHeader
	engine endian.EndianEngine
}

// EncoderOption is a functional option for configuring an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// NewEncoderConfig creates a config with the defaults: point format 0,
// 50,000 points per chunk, little-endian, no chunk post-compression.
func NewEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		header: section.NewStreamHeader(format.Format0, section.DefaultChunkSize),
		engine: endian.GetLittleEndianEngine(),
	}
}

// PointFormat returns the declared point format.
func (c *EncoderConfig) PointFormat() format.PointFormat {
	return c.header.Flag.Format()
}

// ChunkSize returns the configured number of points per chunk.
func (c *EncoderConfig) ChunkSize() int {
	return int(c.header.ChunkSize)
}

// WithPointFormat declares the stream's point format. The field set and
// record width are fixed for the lifetime of the stream.
func WithPointFormat(pf format.PointFormat) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if !pf.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidPointFormat, pf)
		}
		c.header.Flag.SetFormat(pf)

		return nil
	})
}

// WithChunkSize sets the number of points per chunk. Smaller chunks seek
// faster and compress worse; the default of 50,000 suits airborne tiles.
func WithChunkSize(n int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if n <= 0 || n > math.MaxUint32 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidChunkSize, n)
		}
		c.header.ChunkSize = uint32(n)

		return nil
	})
}

// WithChunkCompression selects the per-chunk post-compression algorithm
// applied to each sealed block after range coding.
func WithChunkCompression(ct format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if _, err := compress.CreateCodec(ct); err != nil {
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, ct)
		}
		c.header.Flag.SetCompression(ct)

		return nil
	})
}

// WithLittleEndian sets little-endian byte order for the stream sections.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.header.Flag.WithLittleEndian()
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian sets big-endian byte order for the stream sections.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.header.Flag.WithBigEndian()
		c.engine = endian.GetBigEndianEngine()
	})
}
