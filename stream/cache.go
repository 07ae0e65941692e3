package stream

import "github.com/Karwot/lazstream/las"

// defaultChunkCacheSize is the number of decoded chunks PointAt and Points
// keep around. Index probes cluster heavily in practice, so a handful of
// chunks covers typical access patterns.
const defaultChunkCacheSize = 4

// chunkCache is a small LRU of decoded chunks keyed by chunk index. With a
// capacity this small a slice scan beats a linked list. Callers synchronize
// access; the cache itself holds no lock.
type chunkCache struct {
	capacity int
	keys     []int // most recently used last
	values   map[int][]las.Point
}

func newChunkCache(capacity int) *chunkCache {
	return &chunkCache{
		capacity: capacity,
		values:   make(map[int][]las.Point, capacity),
	}
}

func (c *chunkCache) get(k int) ([]las.Point, bool) {
	points, ok := c.values[k]
	if !ok {
		return nil, false
	}
	c.touch(k)

	return points, true
}

func (c *chunkCache) put(k int, points []las.Point) {
	if c.capacity == 0 {
		return
	}

	if _, ok := c.values[k]; ok {
		c.values[k] = points
		c.touch(k)

		return
	}

	if len(c.keys) >= c.capacity {
		oldest := c.keys[0]
		c.keys = c.keys[1:]
		delete(c.values, oldest)
	}

	c.keys = append(c.keys, k)
	c.values[k] = points
}

// touch moves k to the most recently used position.
func (c *chunkCache) touch(k int) {
	for i, key := range c.keys {
		if key == k {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			c.keys = append(c.keys, k)

			return
		}
	}
}
