package trie

import "github.com/jaiminpan/sparsetrie/common"

// sparseNode is the tagged-variant node model revealed trie state is
// built from: Empty, Hash, Leaf, Extension or Branch. Like the teacher's
// own node interface (fullNode/shortNode/hashNode/valueNode in
// trie_node.go), each variant is a distinct concrete type satisfying a
// small common interface rather than one struct with a kind tag; the
// traversal code in revealed.go and root.go dispatches on it with type
// switches exactly the way trie.go's tryGet/insert/delete do.
type sparseNode interface {
	// cachedHash returns the node's cached RLP-root hash, or nil if the
	// node carries no cache (Empty/Hash are always considered clean,
	// Leaf/Extension/Branch cache lazily at encode time).
	cachedHash() *common.Hash
}

// sparseEmptyNode is only legal at the root of an empty trie.
type sparseEmptyNode struct{}

func (sparseEmptyNode) cachedHash() *common.Hash { return nil }

// sparseHashNode stands in for an unrevealed subtree.
type sparseHashNode struct {
	hash common.Hash
}

func (sparseHashNode) cachedHash() *common.Hash { return nil }

// sparseLeafNode holds the remaining key suffix from its anchor path to
// the leaf's full key; the value itself lives in the values map, never
// copied into the node.
type sparseLeafNode struct {
	key  Nibbles
	hash *common.Hash
}

func (n *sparseLeafNode) cachedHash() *common.Hash { return n.hash }

// sparseExtensionNode holds a non-empty compressed key shared by a
// single child (always a branch or a Hash standing in for one).
type sparseExtensionNode struct {
	key  Nibbles
	hash *common.Hash
}

func (n *sparseExtensionNode) cachedHash() *common.Hash { return n.hash }

// sparseBranchNode holds the 16-bit state mask selecting which of the 16
// child slots are populated.
type sparseBranchNode struct {
	mask TrieMask
	hash *common.Hash
}

func (n *sparseBranchNode) cachedHash() *common.Hash { return n.hash }

func newLeaf(key Nibbles) *sparseLeafNode           { return &sparseLeafNode{key: key} }
func newExtension(key Nibbles) *sparseExtensionNode { return &sparseExtensionNode{key: key} }
func newBranch(mask TrieMask) *sparseBranchNode     { return &sparseBranchNode{mask: mask} }

// newSplitBranch builds a fresh two-child branch, the shape produced
// whenever update_leaf splits an existing Leaf or Extension.
func newSplitBranch(a, b byte) *sparseBranchNode {
	return &sparseBranchNode{mask: splitBranchMask(a, b)}
}
