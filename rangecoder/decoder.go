package rangecoder

// Decoder is the decode side of the range coder. It mirrors the Encoder's
// interval arithmetic, pulling bytes from the input as the interval
// renormalizes.
//
// Reading past the end of the input does not panic; it sets the overrun flag
// and yields zero bytes. Callers must check Overrun after decoding a chunk
// and treat a set flag as stream corruption, since adaptive state desync
// invalidates every later bit anyway.
type Decoder struct {
	in      []byte
	pos     int
	nrange  uint32
	code    uint32
	overrun bool
}

// NewDecoder creates a decoder over a sealed chunk's byte block. The first
// byte of a well-formed block is the encoder's initial zero cache byte.
func NewDecoder(in []byte) *Decoder {
	d := &Decoder{in: in, nrange: 0xffffffff}

	// Skip the leading zero byte, then load the 32-bit code register.
	d.readByte()
	for i := 0; i < 4; i++ {
		d.code = (d.code << 8) | uint32(d.readByte())
	}

	return d
}

// DecodeBit returns the next bit coded through the adaptive context p.
func (d *Decoder) DecodeBit(p *Prob) uint32 {
	bound := p.bound(d.nrange)

	var b uint32
	if d.code < bound {
		d.nrange = bound
		p.inc()
	} else {
		d.code -= bound
		d.nrange -= bound
		p.dec()
		b = 1
	}

	if d.nrange < top {
		d.nrange <<= 8
		d.code = (d.code << 8) | uint32(d.readByte())
	}

	return b
}

// DecodeDirectBit returns the next equal-probability bit.
func (d *Decoder) DecodeDirectBit() uint32 {
	d.nrange >>= 1

	var b uint32
	if d.code >= d.nrange {
		d.code -= d.nrange
		b = 1
	}

	if d.nrange < top {
		d.nrange <<= 8
		d.code = (d.code << 8) | uint32(d.readByte())
	}

	return b
}

// DecodeDirectBits returns the next n equal-probability bits, most
// significant bit first.
func (d *Decoder) DecodeDirectBits(n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v = (v << 1) | uint64(d.DecodeDirectBit())
	}

	return v
}

// Overrun reports whether the decoder consumed more bytes than the input
// holds or decoded a symbol outside its representable domain. Either means
// the chunk bytes are corrupt.
func (d *Decoder) Overrun() bool {
	return d.overrun
}

// markOverrun records an unrepresentable decode state detected by a
// higher-level codec.
func (d *Decoder) markOverrun() {
	d.overrun = true
}

func (d *Decoder) readByte() byte {
	if d.pos >= len(d.in) {
		d.overrun = true
		return 0
	}

	b := d.in[d.pos]
	d.pos++

	return b
}
