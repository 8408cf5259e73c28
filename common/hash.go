// Package common holds the small set of shared types used across the
// trie, rlp and crypto packages: a fixed-size Hash and a couple of byte
// helpers. It mirrors the surface the teacher import path
// "github.com/jaiminpan/mt-trie/common" exposes to trie_node.go,
// trie_committer.go and trie_db.go.
package common

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the expected length of the hash, in bytes.
const HashLength = 32

// Hash represents the 32 byte Keccak-256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets the hash to the value of b, left-padding if b is short.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToHash sets the hash to the value of the hex string s, which may be
// prefixed with 0x.
func HexToHash(s string) Hash {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("common: invalid hex hash %q: %v", s, err))
	}
	return BytesToHash(b)
}

// Bytes returns the byte representation of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns a 0x-prefixed hex string of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
