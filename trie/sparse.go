package trie

import "github.com/jaiminpan/sparsetrie/common"

// SparseTrie is a two-state wrapper around a RevealedSparseTrie: it
// starts Blind (no nodes known at all) and transitions, once, to
// Revealed the first time the root node is supplied. This mirrors the
// role the teacher's New/NewEmpty constructors play for the disk-backed
// Trie, except here "revealing" replaces "reading from the database" —
// there is no persistence layer to fall back on (see SPEC_FULL.md).
//
// SparseTrie is not safe for concurrent use, matching the teacher's Trie.
type SparseTrie struct {
	revealed *RevealedSparseTrie // nil while blind
}

// NewBlind returns a new trie with no nodes known yet.
func NewBlind() *SparseTrie {
	return &SparseTrie{}
}

// RevealedEmpty returns a new trie already revealed as empty, i.e. with
// only the Empty root node installed. Useful in tests and whenever a
// caller builds up a trie from scratch rather than from a proof stream.
func RevealedEmpty() *SparseTrie {
	return &SparseTrie{revealed: newRevealedSparseTrie()}
}

// IsBlind reports whether no nodes have been revealed yet.
func (t *SparseTrie) IsBlind() bool { return t.revealed == nil }

// AsRevealed returns the inner RevealedSparseTrie and true if the trie is
// not blind.
func (t *SparseTrie) AsRevealed() (*RevealedSparseTrie, bool) {
	if t.revealed == nil {
		return nil, false
	}
	return t.revealed, true
}

// RevealRoot transitions Blind to Revealed by decoding the root node and
// any children inlined directly in it. Calling it again on an
// already-revealed trie is a no-op, matching reth's reveal_root.
func (t *SparseTrie) RevealRoot(rootRLP []byte) error {
	if t.revealed != nil {
		return nil
	}
	r, err := revealedSparseTrieFromRoot(rootRLP)
	if err != nil {
		return err
	}
	t.revealed = r
	return nil
}

// RevealNode discloses an additional subtree at path, previously reported
// as blinded.
func (t *SparseTrie) RevealNode(path Nibbles, nodeRLP []byte) error {
	r, ok := t.AsRevealed()
	if !ok {
		return ErrBlind
	}
	return r.revealNodeRLP(path, nodeRLP)
}

// UpdateLeaf inserts or overwrites the value at path. Fails with ErrBlind
// if the trie has not been revealed yet.
func (t *SparseTrie) UpdateLeaf(path Nibbles, value []byte) error {
	r, ok := t.AsRevealed()
	if !ok {
		return ErrBlind
	}
	return r.UpdateLeaf(path, value)
}

// RemoveLeaf deletes the value at path, if present.
func (t *SparseTrie) RemoveLeaf(path Nibbles) error {
	r, ok := t.AsRevealed()
	if !ok {
		return ErrBlind
	}
	return r.RemoveLeaf(path)
}

// Root returns the 32-byte Merkle root, or false if the trie is still
// blind.
func (t *SparseTrie) Root() (common.Hash, bool) {
	r, ok := t.AsRevealed()
	if !ok {
		return common.Hash{}, false
	}
	return r.Root(), true
}
