package section

import (
	"github.com/Karwot/lazstream/endian"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
)

// StreamFlag represents the packed flag fields at the start of the stream header.
type StreamFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is reserved and must be 0.
	// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 2-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the stream format:
	//   - 0xACE0 (0b1010_1100_1110_0000): point stream format v1
	Options uint16

	// PointFormat is the declared point record format (0-3).
	PointFormat uint8

	// CompressionType is the per-chunk post-compression algorithm.
	CompressionType uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewStreamFlag creates a new StreamFlag with default settings:
// little-endian, Format0, no chunk post-compression.
func NewStreamFlag() StreamFlag {
	flag := StreamFlag{
		Options:         MagicStreamV1Opt,
		PointFormat:     uint8(format.Format0),
		CompressionType: uint8(format.CompressionNone),
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the stream data is little-endian.
func (f StreamFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// WithLittleEndian sets little-endian byte order.
func (f *StreamFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *StreamFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f StreamFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// IsValidMagicNumber checks if the magic number is valid.
func (f StreamFlag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicStreamV1Opt
}

// Format returns the declared point format.
func (f StreamFlag) Format() format.PointFormat {
	return format.PointFormat(f.PointFormat)
}

// SetFormat sets the declared point format.
func (f *StreamFlag) SetFormat(pf format.PointFormat) {
	f.PointFormat = uint8(pf)
}

// Compression returns the per-chunk post-compression type.
func (f StreamFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the per-chunk post-compression type.
func (f *StreamFlag) SetCompression(c format.CompressionType) {
	f.CompressionType = uint8(c)
}

// Validate checks if the flag fields contain valid values.
func (f StreamFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrCorruptStream
	}

	if !f.Format().Valid() {
		return errs.ErrInvalidPointFormat
	}

	if _, ok := validCompressions[f.CompressionType]; !ok {
		return errs.ErrInvalidCompression
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f StreamFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
