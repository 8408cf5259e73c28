package trie

import (
	"github.com/jaiminpan/sparsetrie/common"
	"github.com/jaiminpan/sparsetrie/crypto"
	"github.com/jaiminpan/sparsetrie/rlp"
)

// rlpScratch is the reusable buffer the root/RLP engine builds each
// node's encoding into before it is either embedded verbatim in its
// parent or hashed down to 32 bytes. Reset between nodes so the backing
// array is shared across an entire root() call instead of allocated
// fresh per node.
type rlpScratch = rlp.EncoderBuffer

// RlpNode is a child reference exactly as it appears inside its
// parent's RLP list body: either the referenced node's own complete
// encoding (when under 32 bytes, the "embedded" form) or its 33-byte
// hash form (0xa0 followed by the keccak256 digest). This mirrors the
// inline-vs-hash rule every Ethereum MPT RLP encoder applies to child
// slots.
type RlpNode []byte

// AsHash reports whether n is in 33-byte hash form, returning the
// decoded hash if so.
func (n RlpNode) AsHash() (common.Hash, bool) {
	if len(n) == 33 && n[0] == 0xa0 {
		return common.BytesToHash(n[1:]), true
	}
	return common.Hash{}, false
}

// WordRLP returns the RLP hash-form reference for h: a 32-byte RLP
// string header (0xa0) followed by the hash itself.
func WordRLP(h common.Hash) RlpNode {
	out := make(RlpNode, 0, 33)
	out = append(out, 0xa0)
	out = append(out, h[:]...)
	return out
}

// finishRlp turns a just-built node encoding sitting in buf into its
// final child-reference form. Encodings under 32 bytes embed verbatim;
// larger ones collapse to their keccak256 hash form, in which case the
// digest is also returned so the caller can cache it on the node.
func finishRlp(buf *rlp.EncoderBuffer) (RlpNode, *common.Hash) {
	encoded := buf.Bytes()
	if len(encoded) < 32 {
		out := make(RlpNode, len(encoded))
		copy(out, encoded)
		return out, nil
	}
	h := crypto.Keccak256(encoded)
	return WordRLP(h), &h
}

// encodeLeafRlp builds the two-element [hex-prefix(key, term=true), value]
// list that represents a leaf node on the wire.
func (r *RevealedSparseTrie) encodeLeafRlp(key Nibbles, value []byte) (RlpNode, *common.Hash) {
	r.rlpBuf.Reset()
	mark := r.rlpBuf.StartList()
	r.rlpBuf.WriteString(encodeHexPrefix(key, true))
	r.rlpBuf.WriteString(value)
	r.rlpBuf.EndList(mark)
	return finishRlp(&r.rlpBuf)
}

// encodeExtensionRlp builds the two-element [hex-prefix(key, term=false),
// child] list that represents an extension node on the wire. child is
// the already-finished child reference (embedded or hash form).
func (r *RevealedSparseTrie) encodeExtensionRlp(key Nibbles, child RlpNode) (RlpNode, *common.Hash) {
	r.rlpBuf.Reset()
	mark := r.rlpBuf.StartList()
	r.rlpBuf.WriteString(encodeHexPrefix(key, false))
	r.rlpBuf.WriteRaw(child)
	r.rlpBuf.EndList(mark)
	return finishRlp(&r.rlpBuf)
}

// encodeBranchRlp builds the 17-element branch list: one slot per
// nibble 0-15 (the unset ones are the empty string) plus a trailing
// empty value slot. Sparse tries built over fixed-length 32-byte keys
// never store a value at a branch itself, so that slot is always empty.
func (r *RevealedSparseTrie) encodeBranchRlp(children [16]RlpNode, mask TrieMask) (RlpNode, *common.Hash) {
	r.rlpBuf.Reset()
	mark := r.rlpBuf.StartList()
	for i := byte(0); i < 16; i++ {
		if mask.IsSet(i) {
			r.rlpBuf.WriteRaw(children[i])
		} else {
			r.rlpBuf.WriteRaw(rlp.EmptyString)
		}
	}
	r.rlpBuf.WriteRaw(rlp.EmptyString)
	r.rlpBuf.EndList(mark)
	return finishRlp(&r.rlpBuf)
}
