package format

type (
	PointFormat     uint8
	CompressionType uint8
)

const (
	// Point record formats 0-3 as declared by a stream. The format fixes the
	// field set and record width for the lifetime of the stream.
	Format0 PointFormat = 0 // Format0 is the core field set: XYZ, intensity, returns, classification.
	Format1 PointFormat = 1 // Format1 adds GPS time to Format0.
	Format2 PointFormat = 2 // Format2 adds an RGB triple to Format0.
	Format3 PointFormat = 3 // Format3 adds both GPS time and RGB to Format0.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no chunk post-compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard chunk post-compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 chunk post-compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 chunk post-compression.
)

// coreRecordLength is the byte width of the Format0 field set:
// XYZ (3×4), intensity (2), bit field (1), classification (1),
// scan angle (1), user data (1), point source ID (2).
const coreRecordLength = 20

// Valid reports whether the point format is one of the supported variants.
func (f PointFormat) Valid() bool {
	return f <= Format3
}

// HasGPSTime reports whether records of this format carry a GPS time field.
func (f PointFormat) HasGPSTime() bool {
	return f == Format1 || f == Format3
}

// HasRGB reports whether records of this format carry an RGB color triple.
func (f PointFormat) HasRGB() bool {
	return f == Format2 || f == Format3
}

// RecordLength returns the uncompressed byte width of one point record.
func (f PointFormat) RecordLength() int {
	n := coreRecordLength
	if f.HasGPSTime() {
		n += 8
	}
	if f.HasRGB() {
		n += 6
	}

	return n
}

func (f PointFormat) String() string {
	switch f {
	case Format0:
		return "Format0"
	case Format1:
		return "Format1"
	case Format2:
		return "Format2"
	case Format3:
		return "Format3"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
