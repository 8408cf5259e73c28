package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Regression test: a single-leaf trie's root node is itself a
// *sparseLeafNode at the empty anchor, whose own path length (0) never
// reaches any realistic minLen. warmLevel must still warm it, matching
// the source's unconditional leaf arm (original_source's
// update_rlp_node_level target collection adds every Leaf regardless of
// depth; only Extension/Branch gate on min_len).
func TestUpdateRlpNodeLevel_WarmsShallowLeaf(t *testing.T) {
	trie := RevealedEmpty()
	r, _ := trie.AsRevealed()

	key := unpackLastByte(7)
	require.NoError(t, r.UpdateLeaf(key, rlpOne))

	r.UpdateRlpNodeLevel(64)

	node, ok := r.getNode(Nibbles{})
	require.True(t, ok)
	require.NotNil(t, node.cachedHash())
}

// A root branch shallower than minLen is not encoded itself; the nodes
// below it at depth minLen are. The 32-byte value makes each leaf encode
// to hash form, the only form whose hash is cached.
func TestUpdateRlpNodeLevel_WarmsAtBranchBoundary(t *testing.T) {
	trie := RevealedEmpty()
	r, _ := trie.AsRevealed()

	value := make([]byte, 32)
	require.NoError(t, r.UpdateLeaf(FromNibbles(1, 0, 0, 0), value))
	require.NoError(t, r.UpdateLeaf(FromNibbles(2, 0, 0, 0), value))

	r.UpdateRlpNodeLevel(1)

	node, ok := r.getNode(Nibbles{})
	require.True(t, ok)
	branch, ok := node.(*sparseBranchNode)
	require.True(t, ok)
	require.Nil(t, branch.cachedHash(), "root branch is shallower than minLen, should not be warmed directly")

	child, ok := r.getNode(FromNibbles(1))
	require.True(t, ok)
	require.NotNil(t, child.cachedHash(), "child at minLen depth should be warmed")
}
