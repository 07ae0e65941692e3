package rangecoder

import "math/bits"

// classBits is the bit-tree width for magnitude classes. A signed 64-bit
// residual has a magnitude bit length of 0-64, which fits in 7 bits.
const classBits = 7

const maxClass = 64

// IntModel holds the adaptive contexts for one signed residual field: a
// magnitude-class tree and a sign context. A residual is decomposed into the
// bit length of its magnitude (coded adaptively), the magnitude's low-order
// bits below the leading one (coded at equal probability), and a sign bit
// (coded adaptively). Near-zero residuals therefore cost near-zero bits.
type IntModel struct {
	class BitTree
	sign  Prob
}

// NewIntModel creates a model at the initial distribution.
func NewIntModel() IntModel {
	return IntModel{
		class: NewBitTree(classBits),
		sign:  NewProb(),
	}
}

// Reset restores the model to the initial distribution.
func (m *IntModel) Reset() {
	m.class.Reset()
	m.sign.Reset()
}

// Encode codes the signed residual v through the model's contexts.
func (m *IntModel) Encode(e *Encoder, v int64) {
	mag := uint64(v)
	if v < 0 {
		// Two's complement negation yields |v| for every value including
		// MinInt64, whose magnitude 1<<63 has no int64 representation.
		mag = ^mag + 1
	}

	k := bits.Len64(mag)
	m.class.Encode(e, uint32(k))

	if k == 0 {
		return
	}
	if k > 1 {
		// The leading one bit is implied by the class.
		e.EncodeDirectBits(mag, k-1)
	}

	var sb uint32
	if v < 0 {
		sb = 1
	}
	e.EncodeBit(&m.sign, sb)
}

// Decode returns the next signed residual coded through the model's contexts.
// A magnitude class outside the representable domain marks the decoder as
// overrun and returns zero.
func (m *IntModel) Decode(d *Decoder) int64 {
	k := int(m.class.Decode(d))
	if k == 0 {
		return 0
	}
	if k > maxClass {
		d.markOverrun()
		return 0
	}

	mag := uint64(1)
	if k > 1 {
		mag = (mag << uint(k-1)) | d.DecodeDirectBits(k-1)
	}

	if d.DecodeBit(&m.sign) != 0 {
		return -int64(mag)
	}

	if k == maxClass {
		// Magnitude 1<<63 is only representable as a negative residual.
		d.markOverrun()
		return 0
	}

	return int64(mag)
}
