package trie

import (
	"github.com/jaiminpan/sparsetrie/common"
	"github.com/jaiminpan/sparsetrie/crypto"
)

// Root computes the 32-byte Merkle root of the revealed trie. It takes
// (drains) the accumulated prefix set, runs the iterative RLP encoder
// from the root, and folds the result down to a hash: if the root's own
// encoding was short enough to embed, the root is still always reported
// as a 32-byte digest by hashing that encoding, exactly as a non-root
// child would be hashed down once it crossed the embed threshold.
func (r *RevealedSparseTrie) Root() common.Hash {
	frozen := r.prefixSet.Freeze()
	out := r.rlpNode(Nibbles{}, frozen)
	if h, ok := out.AsHash(); ok {
		return h
	}
	return crypto.Keccak256(out)
}

// UpdateRlpNodeLevel warms the hash cache of every node whose anchor
// reaches minLen, without draining the prefix set: callers use it to
// pre-hash a deep, mostly-unchanged trie ahead of a batch of further
// mutations, then let root() finish the job later against whatever the
// prefix set looks like by then.
func (r *RevealedSparseTrie) UpdateRlpNodeLevel(minLen int) {
	frozen := r.prefixSet.Clone().Freeze()
	r.warmLevel(Nibbles{}, minLen, frozen)
}

func (r *RevealedSparseTrie) warmLevel(path Nibbles, minLen int, frozen *PrefixSet) {
	node, ok := r.getNode(path)
	if !ok {
		return
	}
	switch n := node.(type) {
	case *sparseLeafNode:
		// Leaves warm unconditionally: a leaf is always the cheapest
		// possible node to re-hash, and the source's target-collection
		// pass never gates this arm on min_len, only Extension/Branch do.
		r.rlpNode(path, frozen)
	case *sparseExtensionNode:
		if path.Len() >= minLen {
			r.rlpNode(path, frozen)
			return
		}
		r.warmLevel(path.AppendSlice(n.key), minLen, frozen)
	case *sparseBranchNode:
		if path.Len() >= minLen {
			r.rlpNode(path, frozen)
			return
		}
		for i := byte(0); i < 16; i++ {
			if n.mask.IsSet(i) {
				r.warmLevel(path.Append(i), minLen, frozen)
			}
		}
	}
}

// rlpNode is the iterative path/output-stack encoder from spec.md §4.5.
// It is deliberately non-recursive: a node with unresolved children is
// pushed back below them and revisited once they are available, so the
// native call stack never grows with trie depth regardless of how deep
// the revealed structure goes. Each node is visited at most O(depth)
// times and the output map only ever grows, so the walk terminates.
func (r *RevealedSparseTrie) rlpNode(root Nibbles, frozen *PrefixSet) RlpNode {
	results := make(map[string]RlpNode)
	stack := []Nibbles{root}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		node, ok := r.getNode(cur)
		if !ok {
			// No node is installed at this anchor; it is popped without
			// an entry in results.
			stack = stack[:len(stack)-1]
			continue
		}

		switch n := node.(type) {
		case sparseEmptyNode:
			results[cur.key()] = WordRLP(EmptyRootHash)
			stack = stack[:len(stack)-1]

		case sparseHashNode:
			results[cur.key()] = WordRLP(n.hash)
			stack = stack[:len(stack)-1]

		case *sparseLeafNode:
			full := cur.AppendSlice(n.key)
			if n.hash != nil && !frozen.Contains(full) {
				results[cur.key()] = WordRLP(*n.hash)
				stack = stack[:len(stack)-1]
				continue
			}
			out, h := r.encodeLeafRlp(n.key, r.values[full.key()])
			if h != nil {
				n.hash = h
			}
			results[cur.key()] = out
			stack = stack[:len(stack)-1]

		case *sparseExtensionNode:
			if n.hash != nil && !frozen.Contains(cur) {
				results[cur.key()] = WordRLP(*n.hash)
				stack = stack[:len(stack)-1]
				continue
			}
			childPath := cur.AppendSlice(n.key)
			childOut, ready := results[childPath.key()]
			if !ready {
				stack = append(stack, childPath)
				continue
			}
			out, h := r.encodeExtensionRlp(n.key, childOut)
			if h != nil {
				n.hash = h
			}
			results[cur.key()] = out
			stack = stack[:len(stack)-1]

		case *sparseBranchNode:
			if n.hash != nil && !frozen.Contains(cur) {
				results[cur.key()] = WordRLP(*n.hash)
				stack = stack[:len(stack)-1]
				continue
			}

			var children [16]RlpNode
			var missing []Nibbles
			for i := byte(0); i < 16; i++ {
				if !n.mask.IsSet(i) {
					continue
				}
				childPath := cur.Append(i)
				out, ready := results[childPath.key()]
				if !ready {
					missing = append(missing, childPath)
					continue
				}
				children[i] = out
			}
			if len(missing) > 0 {
				stack = append(stack, missing...)
				continue
			}
			out, h := r.encodeBranchRlp(children, n.mask)
			if h != nil {
				n.hash = h
			}
			results[cur.key()] = out
			stack = stack[:len(stack)-1]
		}
	}

	return results[root.key()]
}
