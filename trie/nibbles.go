package trie

// Nibbles is a variable-length sequence of 4-bit values (0..15), one per
// hex digit, used to key every node and value in the trie. A 32-byte key
// unpacks into 64 nibbles.
//
// Nibbles intentionally never carries a terminator marker the way
// go-ethereum's internal "hex" key representation does (an appended 0x10
// sentinel); whether a node terminates in a value is carried by the node
// variant (Leaf vs Extension) instead, and the terminator bit only
// resurfaces at the RLP hex-prefix encoding boundary (see hexprefix.go).
type Nibbles []byte

// Unpack splits a byte string into its nibble sequence, high nibble
// first, the same order go-ethereum's keybytesToHex uses for full 32-byte
// trie keys.
func Unpack(key []byte) Nibbles {
	n := make(Nibbles, 0, len(key)*2)
	for _, b := range key {
		n = append(n, b>>4, b&0x0f)
	}
	return n
}

// FromNibbles builds a Nibbles value directly from individual nibbles,
// copying the input.
func FromNibbles(ns ...byte) Nibbles {
	out := make(Nibbles, len(ns))
	copy(out, ns)
	return out
}

// Len returns the number of nibbles.
func (n Nibbles) Len() int { return len(n) }

// At returns the nibble at index i.
func (n Nibbles) At(i int) byte { return n[i] }

// Slice returns the half-open sub-path [start:end). The result shares the
// backing array with n (zero-copy); callers must not mutate it in place.
func (n Nibbles) Slice(start, end int) Nibbles { return n[start:end] }

// Clone returns an independent copy of n.
func (n Nibbles) Clone() Nibbles {
	if n == nil {
		return nil
	}
	out := make(Nibbles, len(n))
	copy(out, n)
	return out
}

// Append returns a new Nibbles holding n followed by the given nibbles.
// Unlike a raw slice append, this always allocates a fresh backing array:
// paths in this package are used as map keys and as other paths' anchors,
// so silently reusing a backing array across them (the classic Go
// append-aliasing trap) would corrupt unrelated entries.
func (n Nibbles) Append(more ...byte) Nibbles {
	out := make(Nibbles, 0, len(n)+len(more))
	out = append(out, n...)
	out = append(out, more...)
	return out
}

// AppendSlice is Append for a Nibbles argument instead of individual
// nibbles.
func (n Nibbles) AppendSlice(more Nibbles) Nibbles {
	return n.Append(more...)
}

// StartsWith reports whether n begins with the given prefix.
func (n Nibbles) StartsWith(prefix Nibbles) bool {
	if len(prefix) > len(n) {
		return false
	}
	for i, p := range prefix {
		if n[i] != p {
			return false
		}
	}
	return true
}

// CommonPrefixLength returns the length of the longest common prefix of n
// and other.
func (n Nibbles) CommonPrefixLength(other Nibbles) int {
	max := len(n)
	if len(other) < max {
		max = len(other)
	}
	i := 0
	for i < max && n[i] == other[i] {
		i++
	}
	return i
}

// Equal reports whether n and other hold the same nibbles.
func (n Nibbles) Equal(other Nibbles) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if n[i] != other[i] {
			return false
		}
	}
	return true
}

// key returns the string used as the map key for this path, in both the
// node map and the values map. Nibbles are single-byte-per-nibble values
// in [0,16), so the raw byte conversion is a lossless, order-preserving
// encoding; it is never meant to be printed.
func (n Nibbles) key() string { return string(n) }

var hexDigits = []byte("0123456789abcdef")

// String renders the path as a hex digit string for debugging, matching
// the %x-per-nibble style of the teacher's node fstring methods.
func (n Nibbles) String() string {
	out := make([]byte, len(n))
	for i, nib := range n {
		out[i] = hexDigits[nib&0x0f]
	}
	return string(out)
}
