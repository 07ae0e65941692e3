package stream

import (
	"fmt"
	"iter"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Karwot/lazstream/chunk"
	"github.com/Karwot/lazstream/compress"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
	"github.com/Karwot/lazstream/internal/options"
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/section"
)

// Decoder reads a complete encoded stream held in memory and serves point
// records by index, by chunk, or as lazy iterators. Random access decodes
// only the chunk containing the requested point; recently decoded chunks are
// kept in a small cache so sequential index probes stay cheap.
//
// The Decoder is safe for concurrent readers.
type Decoder struct {
	data    []byte
	header  section.StreamHeader
	entries []section.ChunkEntry
	codec   compress.Codec

	mu    sync.Mutex
	cache *chunkCache
}

// DecoderConfig holds the tunables of a Decoder.
type DecoderConfig struct {
	cacheSize int
}

// DecoderOption is a functional option for configuring a Decoder.
type DecoderOption = options.Option[*DecoderConfig]

// WithChunkCacheSize sets how many decoded chunks the Decoder keeps in its
// LRU cache. The default is 4 chunks.
func WithChunkCacheSize(n int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if n < 0 {
			return fmt.Errorf("invalid chunk cache size: %d", n)
		}
		c.cacheSize = n

		return nil
	})
}

// NewDecoder validates the stream's framing and returns a decoder over it.
// The data slice is retained and must not be mutated while the decoder is in
// use; chunk payloads are decoded lazily on access.
//
// Returns ErrTruncatedStream when the stream is shorter than its sections
// claim, and ErrCorruptStream when the sections contradict each other.
func NewDecoder(data []byte, opts ...DecoderOption) (*Decoder, error) {
	cfg := &DecoderConfig{cacheSize: defaultChunkCacheSize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if len(data) < section.HeaderSize+section.TrailerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than header and trailer",
			errs.ErrTruncatedStream, len(data))
	}

	header, err := section.ParseStreamHeader(data)
	if err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}

	entries, err := parseChunkTable(data, &header)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		data:    data,
		header:  header,
		entries: entries,
		codec:   codec,
		cache:   newChunkCache(cfg.cacheSize),
	}, nil
}

// parseChunkTable locates the chunk table via the trailing offset, checks it
// against the header totals and reconstructs the per-chunk offsets and start
// indices from the cumulative sums.
func parseChunkTable(data []byte, header *section.StreamHeader) ([]section.ChunkEntry, error) {
	engine := header.Flag.GetEndianEngine()

	tableOffset := engine.Uint64(data[len(data)-section.TrailerSize:])
	tableEnd := uint64(len(data) - section.TrailerSize)

	if tableOffset < section.HeaderSize {
		return nil, fmt.Errorf("%w: chunk table offset %d overlaps the header",
			errs.ErrCorruptStream, tableOffset)
	}
	if tableOffset > tableEnd {
		return nil, fmt.Errorf("%w: chunk table offset %d exceeds stream size",
			errs.ErrTruncatedStream, tableOffset)
	}

	tableSize := tableEnd - tableOffset
	if tableSize%section.ChunkEntrySize != 0 {
		return nil, fmt.Errorf("%w: chunk table size %d is not a whole number of entries",
			errs.ErrCorruptStream, tableSize)
	}

	chunkCount := int(tableSize / section.ChunkEntrySize) //nolint: gosec
	if chunkCount != int(header.ChunkCount) {
		return nil, fmt.Errorf("%w: chunk table holds %d entries, header declares %d",
			errs.ErrCorruptStream, chunkCount, header.ChunkCount)
	}

	entries := make([]section.ChunkEntry, chunkCount)
	blockOffset := section.HeaderSize
	startIndex := 0

	for i := range entries {
		pos := int(tableOffset) + i*section.ChunkEntrySize //nolint: gosec
		entry, err := section.ParseChunkEntry(data[pos:pos+section.ChunkEntrySize], engine)
		if err != nil {
			return nil, err
		}

		if entry.PointCount == 0 {
			return nil, fmt.Errorf("%w: chunk %d declares zero points", errs.ErrCorruptStream, i)
		}
		if entry.PointCount > header.ChunkSize {
			return nil, fmt.Errorf("%w: chunk %d holds %d points, chunk size is %d",
				errs.ErrCorruptStream, i, entry.PointCount, header.ChunkSize)
		}
		if i < chunkCount-1 && entry.PointCount != header.ChunkSize {
			return nil, fmt.Errorf("%w: non-final chunk %d holds %d points, chunk size is %d",
				errs.ErrCorruptStream, i, entry.PointCount, header.ChunkSize)
		}

		entry.Offset = blockOffset
		entry.StartIndex = startIndex
		entries[i] = entry

		blockOffset += int(entry.ByteLength)
		startIndex += int(entry.PointCount)
	}

	if uint64(blockOffset) != tableOffset { //nolint: gosec
		return nil, fmt.Errorf("%w: chunk byte lengths sum to %d, chunk table starts at %d",
			errs.ErrCorruptStream, blockOffset, tableOffset)
	}
	if uint64(startIndex) != header.PointCount { //nolint: gosec
		return nil, fmt.Errorf("%w: chunk point counts sum to %d, header declares %d",
			errs.ErrCorruptStream, startIndex, header.PointCount)
	}

	return entries, nil
}

// PointFormat returns the stream's declared point format.
func (d *Decoder) PointFormat() format.PointFormat {
	return d.header.Flag.Format()
}

// PointCount returns the total number of points in the stream.
func (d *Decoder) PointCount() int {
	return int(d.header.PointCount) //nolint: gosec
}

// ChunkCount returns the number of chunks in the stream.
func (d *Decoder) ChunkCount() int {
	return len(d.entries)
}

// PointAt decodes and returns the point at the given absolute index. Only
// the chunk containing the index is decoded; the decoded chunk is cached for
// subsequent lookups.
//
// Returns ErrIndexOutOfRange for indices outside [0, PointCount).
func (d *Decoder) PointAt(index int) (las.Point, error) {
	if index < 0 || index >= d.PointCount() {
		return las.Point{}, fmt.Errorf("%w: point %d of %d", errs.ErrIndexOutOfRange, index, d.PointCount())
	}

	// Binary search for the chunk whose start index range covers the point.
	k := sort.Search(len(d.entries), func(i int) bool {
		return d.entries[i].StartIndex > index
	}) - 1

	points, err := d.chunkPoints(k)
	if err != nil {
		return las.Point{}, err
	}

	return points[index-d.entries[k].StartIndex], nil
}

// DecodeChunk decodes the k-th chunk from scratch and returns its points.
// The decode is independent of any previous access and bypasses the chunk
// cache, so it is the primitive parallel readers build on.
//
// Returns ErrIndexOutOfRange for invalid chunk indices and ErrCorruptStream
// when the chunk fails its checksum or decodes inconsistently.
func (d *Decoder) DecodeChunk(k int) ([]las.Point, error) {
	if k < 0 || k >= len(d.entries) {
		return nil, fmt.Errorf("%w: chunk %d of %d", errs.ErrIndexOutOfRange, k, len(d.entries))
	}

	entry := d.entries[k]
	block := d.data[entry.Offset : entry.Offset+int(entry.ByteLength)]

	reader := chunk.NewReader(d.PointFormat(), d.codec)

	points, err := reader.DecodeBlock(block, int(entry.PointCount), entry.Checksum)
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", k, err)
	}

	return points, nil
}

// chunkPoints returns the decoded points of chunk k, consulting the cache
// first. The returned slice is shared with the cache and must not be mutated.
func (d *Decoder) chunkPoints(k int) ([]las.Point, error) {
	d.mu.Lock()
	if points, ok := d.cache.get(k); ok {
		d.mu.Unlock()

		return points, nil
	}
	d.mu.Unlock()

	points, err := d.DecodeChunk(k)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.cache.put(k, points)
	d.mu.Unlock()

	return points, nil
}

// Points returns a lazy iterator over the half-open index range [start, end),
// yielding each absolute index with its decoded point. Chunks are decoded on
// demand as the iteration crosses their boundaries.
//
// The range is clamped to [0, PointCount). Iteration stops early if a chunk
// fails to decode; callers that need the error use PointAt or DecodeChunk.
func (d *Decoder) Points(start, end int) iter.Seq2[int, las.Point] {
	return func(yield func(int, las.Point) bool) {
		start = max(start, 0)
		end = min(end, d.PointCount())

		for i := start; i < end; {
			k := sort.Search(len(d.entries), func(j int) bool {
				return d.entries[j].StartIndex > i
			}) - 1

			points, err := d.chunkPoints(k)
			if err != nil {
				return
			}

			base := d.entries[k].StartIndex
			for ; i < end && i < base+len(points); i++ {
				if !yield(i, points[i-base]) {
					return
				}
			}
		}
	}
}

// All returns a lazy iterator over every point in the stream.
func (d *Decoder) All() iter.Seq2[int, las.Point] {
	return d.Points(0, d.PointCount())
}

// Materialize decodes the entire stream into a single slice, decoding chunks
// concurrently. Chunk independence makes the order immaterial; each decoded
// chunk is written into its slot of the result, so the output order matches
// a sequential decode exactly.
func (d *Decoder) Materialize() ([]las.Point, error) {
	points := make([]las.Point, d.PointCount())
	if len(d.entries) == 0 {
		return points, nil
	}

	workers := min(runtime.GOMAXPROCS(0), len(d.entries))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		failed   atomic.Bool
		errOnce  sync.Once
		firstErr error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				if failed.Load() {
					continue
				}

				decoded, err := d.DecodeChunk(k)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						failed.Store(true)
					})

					continue
				}
				copy(points[d.entries[k].StartIndex:], decoded)
			}
		}()
	}

	for k := range d.entries {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return points, nil
}
