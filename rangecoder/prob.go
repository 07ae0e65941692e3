// Package rangecoder implements the adaptive binary range coder used to
// entropy-code point-field residuals.
//
// The coder maintains a shrinking 32-bit interval. Each coded bit narrows the
// interval according to an adaptive probability context (Prob); whenever the
// interval drops below the representable precision, determined high-order
// bytes are shifted out to the output (encode) or pulled in from the input
// (decode). Contexts adapt with a fixed shift rate so probabilities track
// local statistics without unbounded growth.
//
// All state is per-instance. A fresh encoder/decoder plus fresh contexts at
// every chunk boundary is what makes chunks independently decodable.
package rangecoder

const (
	movebits = 5
	probbits = 11

	// probInit is the initial probability estimate: 0 and 1 equally likely.
	probInit = 1 << (probbits - 1)

	// top is the renormalization threshold of the 32-bit interval.
	top = 1 << 24
)

// Prob is an adaptive probability context for a single binary decision.
// The value estimates the probability of a zero bit in 1/2048 units and is
// updated after every coded bit.
type Prob uint16

// NewProb returns a context at the initial even distribution.
func NewProb() Prob {
	return probInit
}

// Reset restores the context to the initial even distribution.
func (p *Prob) Reset() {
	*p = probInit
}

// inc moves the estimate toward zero bits being more likely.
func (p *Prob) inc() {
	*p += ((1 << probbits) - *p) >> movebits
}

// dec moves the estimate toward one bits being more likely.
func (p *Prob) dec() {
	*p -= *p >> movebits
}

// bound splits the interval r proportionally to the zero-bit probability.
func (p Prob) bound(r uint32) uint32 {
	return (r >> probbits) * uint32(p)
}

// BitTree is a complete binary tree of probability contexts coding fixed-width
// symbols bit by bit, most significant bit first. Each tree node adapts
// independently, so frequent symbol prefixes cost near-zero bits.
type BitTree struct {
	probs []Prob
	bits  byte
}

// NewBitTree creates a tree for symbols of the given bit width.
func NewBitTree(bits int) BitTree {
	if bits < 1 || bits > 32 {
		panic("rangecoder: bit tree width outside of range [1,32]")
	}

	t := BitTree{
		bits:  byte(bits),
		probs: make([]Prob, 1<<uint(bits)),
	}
	t.Reset()

	return t
}

// Reset restores every node to the initial even distribution.
func (t *BitTree) Reset() {
	for i := range t.probs {
		t.probs[i] = probInit
	}
}

// Encode codes the low t.bits of v through the tree contexts.
func (t *BitTree) Encode(e *Encoder, v uint32) {
	m := uint32(1)
	for i := int(t.bits) - 1; i >= 0; i-- {
		b := (v >> uint(i)) & 1
		e.EncodeBit(&t.probs[m], b)
		m = (m << 1) | b
	}
}

// Decode returns the next symbol coded through the tree contexts.
func (t *BitTree) Decode(d *Decoder) uint32 {
	m := uint32(1)
	for i := 0; i < int(t.bits); i++ {
		m = (m << 1) | d.DecodeBit(&t.probs[m])
	}

	return m - (1 << uint(t.bits))
}
