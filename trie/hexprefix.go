package trie

import "fmt"

// encodeHexPrefix packs a nibble key plus a terminator flag into the
// compact byte form the Ethereum MPT RLP rules require for leaf and
// extension nodes (hex-prefix encoding, HP). The flag byte's high nibble
// carries the terminator in bit 0x20 (set for a leaf, clear for an
// extension) and key-length parity in bit 0x10; an odd-length key folds its first
// nibble into the flag byte so every encoded key is a whole number of
// bytes.
//
// This is the same bit layout go-ethereum's trie/encoding.go
// hexToCompact uses, adapted so the terminator is an explicit parameter
// instead of a sentinel nibble appended to the key slice (this package's
// Nibbles never carries one, see nibbles.go).
func encodeHexPrefix(key Nibbles, terminator bool) []byte {
	flag := byte(0)
	if terminator {
		flag = 1 << 5
	}
	odd := len(key)%2 == 1
	buf := make([]byte, len(key)/2+1)
	if odd {
		flag |= 1 << 4
		flag |= key[0]
		key = key[1:]
	}
	buf[0] = flag
	for i := 0; i < len(key); i += 2 {
		buf[1+i/2] = key[i]<<4 | key[i+1]
	}
	return buf
}

// decodeHexPrefix reverses encodeHexPrefix.
func decodeHexPrefix(buf []byte) (key Nibbles, terminator bool, err error) {
	if len(buf) == 0 {
		return nil, false, fmt.Errorf("trie: empty hex-prefix key")
	}
	flag := buf[0]
	terminator = flag&(1<<5) != 0
	odd := flag&(1<<4) != 0

	key = make(Nibbles, 0, 2*(len(buf)-1)+1)
	if odd {
		key = append(key, flag&0x0f)
	}
	for _, b := range buf[1:] {
		key = append(key, b>>4, b&0x0f)
	}
	return key, terminator, nil
}
