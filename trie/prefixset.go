package trie

import "sort"

// PrefixSetMut accumulates the nibble paths touched during a mutation
// window. It plays the role the teacher's NodeSet (trie_nodeset.go) plays
// for a disk-backed trie's dirty tracking — an ordered record of what
// changed since the last commit — except the unit of "what changed" here
// is a path prefix, not a concrete node, which is what lets root()
// recompute hashes without needing every node to have been touched
// explicitly.
type PrefixSetMut struct {
	keys []Nibbles
}

// Insert records a path as dirty. A path written to the set must cover,
// at minimum, every leaf path whose presence or value changed.
func (p *PrefixSetMut) Insert(path Nibbles) {
	p.keys = append(p.keys, path.Clone())
}

// Freeze snapshots the accumulated paths into a queryable, sorted
// PrefixSet and resets the mutable accumulator.
func (p *PrefixSetMut) Freeze() *PrefixSet {
	sorted := make([]Nibbles, len(p.keys))
	copy(sorted, p.keys)
	sort.Slice(sorted, func(i, j int) bool {
		return nibblesLess(sorted[i], sorted[j])
	})
	p.keys = nil
	return &PrefixSet{keys: sorted}
}

// Clone returns an independent copy of the mutable accumulator, used by
// update_rlp_node_level which needs to query a snapshot without
// disturbing the set root() will later consume.
func (p *PrefixSetMut) Clone() *PrefixSetMut {
	out := &PrefixSetMut{keys: make([]Nibbles, len(p.keys))}
	copy(out.keys, p.keys)
	return out
}

// PrefixSet is the frozen, queryable form of a PrefixSetMut.
type PrefixSet struct {
	keys []Nibbles
}

// Contains reports whether any stored path starts with prefix. Keys are
// sorted lexicographically by nibble value, so every key sharing a given
// prefix forms a contiguous run starting at the first key >= prefix;
// checking just that one key is therefore sufficient.
func (p *PrefixSet) Contains(prefix Nibbles) bool {
	i := sort.Search(len(p.keys), func(i int) bool {
		return !nibblesLess(p.keys[i], prefix)
	})
	return i < len(p.keys) && p.keys[i].StartsWith(prefix)
}

func nibblesLess(a, b Nibbles) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
