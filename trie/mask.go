package trie

import "math/bits"

// TrieMask is a 16-bit bitmap over a branch node's child slots: bit i set
// means a child is present at nibble i. gaissmai-bart's popcount-compressed
// node arrays reach for stdlib math/bits directly for this kind of
// bitmap arithmetic rather than a dedicated bitset dependency, and so do
// we: a single uint16 needs nothing more.
type TrieMask uint16

// IsSet reports whether bit i is set.
func (m TrieMask) IsSet(i byte) bool {
	return m&(1<<i) != 0
}

// Set sets bit i.
func (m *TrieMask) Set(i byte) {
	*m |= 1 << i
}

// Unset clears bit i.
func (m *TrieMask) Unset(i byte) {
	*m &^= 1 << i
}

// Count returns the number of set bits.
func (m TrieMask) Count() int {
	return bits.OnesCount16(uint16(m))
}

// FirstSet returns the index of the lowest set bit. Callers must ensure
// the mask is non-zero.
func (m TrieMask) FirstSet() byte {
	return byte(bits.TrailingZeros16(uint16(m)))
}

// splitBranchMask builds a mask with exactly two bits set, for the new
// branch created when a leaf or extension splits.
func splitBranchMask(a, b byte) TrieMask {
	var m TrieMask
	m.Set(a)
	m.Set(b)
	return m
}
