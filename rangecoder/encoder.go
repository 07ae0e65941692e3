package rangecoder

import "github.com/Karwot/lazstream/internal/pool"

// Encoder is the encode side of the range coder. It narrows a [low, low+range)
// interval per coded bit and shifts determined high-order bytes into the
// output buffer, rippling carries through buffered-but-undetermined 0xFF
// bytes via the cache/cacheLen mechanism.
//
// The Encoder is not safe for concurrent use; each in-flight chunk owns one.
type Encoder struct {
	out      *pool.ByteBuffer
	low      uint64
	nrange   uint32
	cacheLen int
	cache    byte
}

// NewEncoder creates an encoder appending to out.
func NewEncoder(out *pool.ByteBuffer) *Encoder {
	e := &Encoder{out: out}
	e.Reset(out)

	return e
}

// Reset rebinds the encoder to out and restores the initial interval state.
// The output buffer itself is not cleared.
func (e *Encoder) Reset(out *pool.ByteBuffer) {
	e.out = out
	e.low = 0
	e.nrange = 0xffffffff
	e.cache = 0
	e.cacheLen = 1
}

// EncodeBit codes one bit through the adaptive context p.
func (e *Encoder) EncodeBit(p *Prob, b uint32) {
	bound := p.bound(e.nrange)
	if b&1 == 0 {
		e.nrange = bound
		p.inc()
	} else {
		e.low += uint64(bound)
		e.nrange -= bound
		p.dec()
	}

	if e.nrange >= top {
		return
	}
	e.nrange <<= 8
	e.shiftLow()
}

// EncodeDirectBit codes one bit at equal probability, bypassing adaptation.
// Used for the raw low-order magnitude bits of residuals, which are close to
// uniformly distributed.
func (e *Encoder) EncodeDirectBit(b uint32) {
	e.nrange >>= 1
	if b&1 != 0 {
		e.low += uint64(e.nrange)
	}

	if e.nrange >= top {
		return
	}
	e.nrange <<= 8
	e.shiftLow()
}

// EncodeDirectBits codes the low n bits of v at equal probability, most
// significant bit first.
func (e *Encoder) EncodeDirectBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		e.EncodeDirectBit(uint32(v>>uint(i)) & 1)
	}
}

// Flush pads out the remaining interval state so a decoder can determine the
// final symbols unambiguously. It costs five bytes per chunk.
func (e *Encoder) Flush() {
	for i := 0; i < 5; i++ {
		e.shiftLow()
	}
}

func (e *Encoder) shiftLow() {
	if uint32(e.low) < 0xff000000 || (e.low>>32) != 0 {
		tmp := e.cache
		for {
			e.out.AppendByte(tmp + byte(e.low>>32))
			tmp = 0xff
			e.cacheLen--
			if e.cacheLen <= 0 {
				if e.cacheLen < 0 {
					panic("rangecoder: negative cacheLen")
				}
				break
			}
		}
		e.cache = byte(uint32(e.low) >> 24)
	}
	e.cacheLen++
	e.low = uint64(uint32(e.low) << 8)
}
