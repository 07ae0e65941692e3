package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// Block framing tags. LZ4 block compression reports incompressible input by
// producing zero bytes, and the block format does not store the original
// size, so each block is prefixed with a tag byte and, for compressed
// blocks, the original length as a uvarint.
const (
	lz4BlockRaw        = 0x00
	lz4BlockCompressed = 0x01
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 chunk compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses a chunk block using LZ4 block compression. Blocks that
// do not shrink are stored raw behind the tag byte.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	header := make([]byte, 1+binary.MaxVarintLen64)
	header[0] = lz4BlockCompressed
	headerLen := 1 + binary.PutUvarint(header[1:], uint64(len(data)))

	dst := make([]byte, headerLen+lz4.CompressBlockBound(len(data)))
	copy(dst, header[:headerLen])

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[headerLen:])
	if err != nil {
		return nil, err
	}

	if n == 0 || n >= len(data) {
		// Incompressible. Store the block as-is.
		out := make([]byte, 1+len(data))
		out[0] = lz4BlockRaw
		copy(out[1:], data)

		return out, nil
	}

	return dst[:headerLen+n], nil
}

// Decompress decompresses an LZ4 chunk block.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case lz4BlockRaw:
		return append([]byte(nil), data[1:]...), nil

	case lz4BlockCompressed:
		rawLen, varLen := binary.Uvarint(data[1:])
		if varLen <= 0 || rawLen > maxDecompressedSize {
			return nil, fmt.Errorf("lz4 block with invalid size prefix")
		}

		buf := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(data[1+varLen:], buf)
		if err != nil {
			return nil, err
		}
		if uint64(n) != rawLen {
			return nil, fmt.Errorf("lz4 block decompressed to %d bytes, prefix declares %d", n, rawLen)
		}

		return buf, nil

	default:
		return nil, fmt.Errorf("unknown lz4 block tag 0x%02x", data[0])
	}
}
