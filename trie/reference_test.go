package trie

import (
	"sort"

	"github.com/jaiminpan/sparsetrie/common"
	"github.com/jaiminpan/sparsetrie/crypto"
	"github.com/jaiminpan/sparsetrie/rlp"
)

// referenceKV is one entry for the dense hash-builder reference used by
// the end-to-end tests: an independent, recursive re-derivation of the
// MPT root from a flat key/value set, playing the role spec.md calls
// HB(keys, values). It shares the low-level RLP and hex-prefix encoding
// helpers with the sparse trie (there is only one wire format to target)
// but computes the tree structure by straightforward top-down recursion
// over a sorted slice rather than incremental mutation, so it makes an
// independent check of update_leaf/remove_leaf's structural bookkeeping.
type referenceKV struct {
	path  Nibbles
	value []byte
}

// referenceRoot computes HB(items) for a set of distinct, equal-length
// paths.
func referenceRoot(items []referenceKV) common.Hash {
	if len(items) == 0 {
		return EmptyRootHash
	}
	sorted := make([]referenceKV, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return nibblesLess(sorted[i].path, sorted[j].path)
	})
	out := hbEncode(sorted, 0)
	if h, ok := out.AsHash(); ok {
		return h
	}
	return crypto.Keccak256(out)
}

func hbEncode(items []referenceKV, depth int) RlpNode {
	if len(items) == 1 {
		return hbLeaf(items[0].path[depth:], items[0].value)
	}

	cp := hbCommonPrefix(items, depth)
	if cp > 0 {
		child := hbBranchLevel(items, depth+cp)
		return hbExtension(items[0].path[depth:depth+cp], child)
	}
	return hbBranchLevel(items, depth)
}

func hbCommonPrefix(items []referenceKV, depth int) int {
	minLen := len(items[0].path) - depth
	for _, it := range items[1:] {
		if rem := len(it.path) - depth; rem < minLen {
			minLen = rem
		}
	}
	cp := 0
	for cp < minLen {
		b := items[0].path[depth+cp]
		match := true
		for _, it := range items[1:] {
			if it.path[depth+cp] != b {
				match = false
				break
			}
		}
		if !match {
			break
		}
		cp++
	}
	return cp
}

func hbBranchLevel(items []referenceKV, depth int) RlpNode {
	var groups [16][]referenceKV
	for _, it := range items {
		n := it.path[depth]
		groups[n] = append(groups[n], it)
	}
	var children [16]RlpNode
	var mask TrieMask
	for i := byte(0); i < 16; i++ {
		if len(groups[i]) == 0 {
			continue
		}
		mask.Set(i)
		children[i] = hbEncode(groups[i], depth+1)
	}
	return hbBranchEncode(children, mask)
}

func hbLeaf(key Nibbles, value []byte) RlpNode {
	var buf rlp.EncoderBuffer
	mark := buf.StartList()
	buf.WriteString(encodeHexPrefix(key, true))
	buf.WriteString(value)
	buf.EndList(mark)
	out, _ := finishRlp(&buf)
	return out
}

func hbExtension(key Nibbles, child RlpNode) RlpNode {
	var buf rlp.EncoderBuffer
	mark := buf.StartList()
	buf.WriteString(encodeHexPrefix(key, false))
	buf.WriteRaw(child)
	buf.EndList(mark)
	out, _ := finishRlp(&buf)
	return out
}

func hbBranchEncode(children [16]RlpNode, mask TrieMask) RlpNode {
	var buf rlp.EncoderBuffer
	mark := buf.StartList()
	for i := byte(0); i < 16; i++ {
		if mask.IsSet(i) {
			buf.WriteRaw(children[i])
		} else {
			buf.WriteRaw(rlp.EmptyString)
		}
	}
	buf.WriteRaw(rlp.EmptyString)
	buf.EndList(mark)
	out, _ := finishRlp(&buf)
	return out
}
