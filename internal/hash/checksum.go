package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 of a sealed chunk's byte block.
// It is stored in the chunk table entry and verified before decode.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
