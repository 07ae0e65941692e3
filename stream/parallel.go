package stream

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Karwot/lazstream/chunk"
	"github.com/Karwot/lazstream/compress"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/las"
)

// EncodePoints encodes a complete point slice into stream bytes, compressing
// chunks concurrently. Chunk independence makes this exact: every worker
// starts its chunk from the same reset state a sequential encoder would, so
// the output is byte-identical to appending the points one at a time.
//
// Accepts the same options as NewEncoder.
func EncodePoints(points []las.Point, opts ...EncoderOption) ([]byte, error) {
	cfg, _, err := buildEncoderConfig(opts...)
	if err != nil {
		return nil, err
	}

	for i, pt := range points {
		if pt.Format != cfg.PointFormat() {
			return nil, fmt.Errorf("%w: record %d has %s, stream declares %s",
				errs.ErrFormatMismatch, i, pt.Format, cfg.PointFormat())
		}
	}

	chunkSize := cfg.ChunkSize()
	chunkCount := (len(points) + chunkSize - 1) / chunkSize

	blocks := make([]chunk.Block, chunkCount)
	if chunkCount > 0 {
		if err := encodeChunks(cfg, points, blocks); err != nil {
			return nil, err
		}
	}

	header := *cfg.header
	header.PointCount = uint64(len(points))
	header.ChunkCount = uint32(chunkCount) //nolint: gosec

	return assembleStream(&header, blocks, cfg.engine), nil
}

// encodeChunks seals every chunk of the point slice into its block slot,
// spreading chunks over a bounded worker pool. Each worker owns its writer
// and codec so no coder or compressor state is shared.
func encodeChunks(cfg *EncoderConfig, points []las.Point, blocks []chunk.Block) error {
	chunkSize := cfg.ChunkSize()
	workers := min(runtime.GOMAXPROCS(0), len(blocks))

	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			codec, err := compress.CreateCodec(cfg.header.Flag.Compression())
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()

				for range jobs { // keep the feeder unblocked
				}

				return
			}

			writer := chunk.NewWriter(cfg.PointFormat(), chunkSize, codec)
			defer writer.Close()

			for k := range jobs {
				start := k * chunkSize
				end := min(start+chunkSize, len(points))

				block, err := sealChunk(writer, points[start:end])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("chunk %d: %w", k, err)
					}
					mu.Unlock()

					continue
				}
				blocks[k] = block
			}
		}()
	}

	for k := range blocks {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	return firstErr
}

func sealChunk(writer *chunk.Writer, points []las.Point) (chunk.Block, error) {
	for _, pt := range points {
		if err := writer.WritePoint(pt); err != nil {
			return chunk.Block{}, err
		}
	}

	return writer.Seal()
}
