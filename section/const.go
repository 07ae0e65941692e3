package section

const (
	// Bit masks for the packed Options field.
	ReservedMask    = 0x0001 // Mask for reserved bit (bit 0), must be zero
	EndiannessMask  = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitMask = 0x000C // Mask for reserved bits (bits 2-3), must be zero
	MagicNumberMask = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicStreamV1Opt is the version 1 magic number for the point stream format.
	MagicStreamV1Opt = 0xACE0
)

// Offsets and section sizes in the stream layout.
const (
	// HeaderSize is the fixed stream header size in bytes.
	HeaderSize = 32

	// ChunkEntrySize is the fixed chunk table entry size in bytes:
	// byte length (4), point count (4), xxHash64 checksum (8).
	ChunkEntrySize = 16

	// TrailerSize is the size of the trailing chunk table offset in bytes.
	TrailerSize = 8

	// DefaultChunkSize is the configured points-per-chunk default.
	DefaultChunkSize = 50_000
)
