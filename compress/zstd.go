package compress

// ZstdCompressor provides Zstandard compression for sealed chunk blocks.
//
// Zstd gives the best ratio of the available codecs and suits archival
// streams where decode frequency is low. The implementation is selected at
// build time: cgo builds use the libzstd binding, pure-Go builds use the
// klauspost encoder (see zstd_cgo.go and zstd_pure.go).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd chunk compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
