package trie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaiminpan/sparsetrie/rlp"
)

// testEncodeNode is a test-only recursive encoder (recursion is fine
// here; the native-call-stack contract in root.go binds the production
// encoder, not this helper) that reconstructs a node's own raw RLP
// bytes straight from an already-populated RevealedSparseTrie, the way
// a proof source would have produced them in the first place. It
// returns both the node's own encoding (what reveal_root/reveal_node
// expect to be handed) and its child-reference form (embedded or
// 33-byte hash, what a parent would have written into its own list).
func testEncodeNode(r *RevealedSparseTrie, path Nibbles) (raw RlpNode, ref RlpNode) {
	node, ok := r.getNode(path)
	if !ok {
		panic("testEncodeNode: no node at path")
	}

	switch n := node.(type) {
	case sparseEmptyNode:
		w := WordRLP(EmptyRootHash)
		return w, w

	case sparseHashNode:
		w := WordRLP(n.hash)
		return w, w

	case *sparseLeafNode:
		full := path.AppendSlice(n.key)
		val := r.values[full.key()]
		var buf rlp.EncoderBuffer
		mark := buf.StartList()
		buf.WriteString(encodeHexPrefix(n.key, true))
		buf.WriteString(val)
		buf.EndList(mark)
		raw = append(RlpNode(nil), buf.Bytes()...)
		ref, _ = finishRlp(&buf)
		return raw, ref

	case *sparseExtensionNode:
		_, childRef := testEncodeNode(r, path.AppendSlice(n.key))
		var buf rlp.EncoderBuffer
		mark := buf.StartList()
		buf.WriteString(encodeHexPrefix(n.key, false))
		buf.WriteRaw(childRef)
		buf.EndList(mark)
		raw = append(RlpNode(nil), buf.Bytes()...)
		ref, _ = finishRlp(&buf)
		return raw, ref

	case *sparseBranchNode:
		var children [16]RlpNode
		for i := byte(0); i < 16; i++ {
			if n.mask.IsSet(i) {
				_, cref := testEncodeNode(r, path.Append(i))
				children[i] = cref
			}
		}
		var buf rlp.EncoderBuffer
		mark := buf.StartList()
		for i := byte(0); i < 16; i++ {
			if n.mask.IsSet(i) {
				buf.WriteRaw(children[i])
			} else {
				buf.WriteRaw(rlp.EmptyString)
			}
		}
		buf.WriteRaw(rlp.EmptyString)
		buf.EndList(mark)
		raw = append(RlpNode(nil), buf.Bytes()...)
		ref, _ = finishRlp(&buf)
		return raw, ref

	default:
		panic("testEncodeNode: unknown node type")
	}
}

// revealAlongPath drives blind's RevealNode calls, fetching whatever
// raw bytes are needed from orig, until the node at path is fully
// revealed down to its owning leaf.
func revealAlongPath(t *testing.T, blind *SparseTrie, orig *RevealedSparseTrie, path Nibbles) {
	t.Helper()
	rb, ok := blind.AsRevealed()
	require.True(t, ok)

	current := Nibbles{}
	for {
		node, ok := rb.getNode(current)
		require.True(t, ok)
		switch n := node.(type) {
		case sparseHashNode:
			raw, _ := testEncodeNode(orig, current)
			require.NoError(t, blind.RevealNode(current, raw))
		case *sparseLeafNode:
			return
		case *sparseExtensionNode:
			current = current.AppendSlice(n.key)
		case *sparseBranchNode:
			nib := path.At(current.Len())
			current = current.Append(nib)
		default:
			t.Fatalf("revealAlongPath: unexpected node %T at %s", node, current)
		}
	}
}

func TestSparseTrie_BlindUntilRevealed(t *testing.T) {
	blind := NewBlind()
	require.True(t, blind.IsBlind())

	_, ok := blind.Root()
	require.False(t, ok)

	require.ErrorIs(t, blind.UpdateLeaf(unpackLastByte(1), rlpOne), ErrBlind)
	require.ErrorIs(t, blind.RemoveLeaf(unpackLastByte(1)), ErrBlind)
	require.ErrorIs(t, blind.RevealNode(FromNibbles(0), []byte{0x80}), ErrBlind)
}

func TestSparseTrie_RevealRootEmpty(t *testing.T) {
	blind := NewBlind()
	require.NoError(t, blind.RevealRoot([]byte{0x80}))
	require.False(t, blind.IsBlind())

	root, ok := blind.Root()
	require.True(t, ok)
	require.Equal(t, EmptyRootHash, root)
}

func TestSparseTrie_RevealRootIsNoopOnceRevealed(t *testing.T) {
	blind := NewBlind()
	require.NoError(t, blind.RevealRoot([]byte{0x80}))
	require.NoError(t, blind.UpdateLeaf(unpackLastByte(1), rlpOne))
	root1, _ := blind.Root()

	// A second RevealRoot must not clobber the mutations already applied.
	require.NoError(t, blind.RevealRoot([]byte{0x80}))
	root2, _ := blind.Root()
	require.Equal(t, root1, root2)
}

func TestSparseTrie_RevealRoundTripMatchesOriginal(t *testing.T) {
	orig := RevealedEmpty()
	r, _ := orig.AsRevealed()

	// A 32-byte value makes every leaf, and so the branch above them,
	// encode to hash form: the blind trie must reveal them via RevealNode.
	value := make([]byte, 32)
	var keys []Nibbles
	for i := 0; i < 6; i++ {
		k := unpackLastByte(byte(i * 17))
		require.NoError(t, r.UpdateLeaf(k, value))
		keys = append(keys, k)
	}
	wantRoot := r.Root()

	rootRaw, _ := testEncodeNode(r, Nibbles{})

	blind := NewBlind()
	require.NoError(t, blind.RevealRoot(rootRaw))
	require.False(t, blind.IsBlind())

	for _, k := range keys {
		revealAlongPath(t, blind, r, k)
	}

	got, ok := blind.Root()
	require.True(t, ok)
	require.Equal(t, wantRoot, got)
}

func TestSparseTrie_MutationThroughBlindedNodeFails(t *testing.T) {
	orig := RevealedEmpty()
	r, _ := orig.AsRevealed()

	// A 32-byte value makes the branch below the root extension encode to
	// hash form, so revealing the root leaves it blinded.
	value := make([]byte, 32)
	var keys []Nibbles
	for i := 0; i < 6; i++ {
		k := unpackLastByte(byte(i * 17))
		require.NoError(t, r.UpdateLeaf(k, value))
		keys = append(keys, k)
	}
	_ = r.Root()

	rootRaw, _ := testEncodeNode(r, Nibbles{})
	blind := NewBlind()
	require.NoError(t, blind.RevealRoot(rootRaw))

	// Without revealing any children, mutating through the branch must
	// surface a BlindedNodeError rather than silently misbehaving.
	err := blind.UpdateLeaf(keys[0], rlpTwo)
	var blindedErr *BlindedNodeError
	require.ErrorAs(t, err, &blindedErr)
}

func TestSparseTrie_RevealNodeOverExistingEntryRejected(t *testing.T) {
	blind := NewBlind()
	require.NoError(t, blind.RevealRoot([]byte{0x80}))

	err := blind.RevealNode(FromNibbles(), []byte{0x80})
	require.Error(t, err)
}
