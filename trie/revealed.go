package trie

import (
	"fmt"

	"github.com/jaiminpan/sparsetrie/common"
)

// EmptyRootHash is the Keccak-256 hash of RLP(""), the root of an empty
// trie. Value taken from the teacher's own emptyRoot constant
// (trie.go), which is the standard Ethereum MPT empty-root hash.
var EmptyRootHash = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// RevealedSparseTrie is the working representation of a partially
// revealed sparse trie: a map of anchor path to node, a map of full leaf
// path to value, a prefix set of paths dirtied since the last root(), and
// a scratch buffer reused by the RLP/root engine.
type RevealedSparseTrie struct {
	nodes  map[string]sparseNode
	paths  map[string]Nibbles // path.key() -> path, so nodes/prefixSet iteration can recover the Nibbles
	values map[string][]byte

	prefixSet PrefixSetMut
	rlpBuf    rlpScratch
}

func newRevealedSparseTrie() *RevealedSparseTrie {
	r := &RevealedSparseTrie{
		nodes:  make(map[string]sparseNode),
		paths:  make(map[string]Nibbles),
		values: make(map[string][]byte),
	}
	r.setNode(Nibbles{}, sparseEmptyNode{})
	return r
}

func revealedSparseTrieFromRoot(rootRLP []byte) (*RevealedSparseTrie, error) {
	r := &RevealedSparseTrie{
		nodes:  make(map[string]sparseNode),
		paths:  make(map[string]Nibbles),
		values: make(map[string][]byte),
	}
	if err := r.revealNodeRLP(Nibbles{}, rootRLP); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RevealedSparseTrie) getNode(path Nibbles) (sparseNode, bool) {
	n, ok := r.nodes[path.key()]
	return n, ok
}

func (r *RevealedSparseTrie) setNode(path Nibbles, n sparseNode) {
	k := path.key()
	r.nodes[k] = n
	r.paths[k] = path
}

func (r *RevealedSparseTrie) deleteNode(path Nibbles) {
	k := path.key()
	delete(r.nodes, k)
	delete(r.paths, k)
}

// revealNodeRLP decodes raw RLP bytes into a wireNode and reveals it at
// path.
func (r *RevealedSparseTrie) revealNodeRLP(path Nibbles, buf []byte) error {
	n, err := decodeWireNode(buf)
	if err != nil {
		return err
	}
	return r.revealNode(path, n)
}

// revealNode installs a decoded node at path, recursively revealing any
// children inlined in its own encoding (see reveal_child). A Hash stand-in
// at path is replaced by the revealed node; revealing over any other
// already-known node is rejected with an error.
func (r *RevealedSparseTrie) revealNode(path Nibbles, n wireNode) error {
	if existing, exists := r.getNode(path); exists {
		if _, isHash := existing.(sparseHashNode); !isHash {
			return fmt.Errorf("trie: node already revealed at path %s", path)
		}
	}

	switch n.kind {
	case wireEmptyRoot:
		if path.Len() != 0 {
			return fmt.Errorf("trie: empty root node revealed at non-root path %s", path)
		}
		r.setNode(path, sparseEmptyNode{})

	case wireLeaf:
		full := path.AppendSlice(n.leafKey)
		r.values[full.key()] = n.leafValue
		r.paths[full.key()] = full
		r.setNode(path, newLeaf(n.leafKey))

	case wireExtension:
		childPath := path.AppendSlice(n.extKey)
		if err := r.revealChildOrHash(childPath, n.extChild); err != nil {
			return err
		}
		r.setNode(path, newExtension(n.extKey))

	case wireBranch:
		idx := 0
		for i := byte(0); i < 16; i++ {
			if !n.branchMask.IsSet(i) {
				continue
			}
			childPath := path.Append(i)
			if err := r.revealChildOrHash(childPath, n.branchChildren[idx]); err != nil {
				return err
			}
			idx++
		}
		r.setNode(path, newBranch(n.branchMask))

	default:
		return fmt.Errorf("trie: unknown wire node kind %d", n.kind)
	}
	return nil
}

// revealChildOrHash reveals a child reference, which is either the
// 33-byte RLP hash form (first byte 0xa0, tail the 32-byte digest) or an
// embedded node's own RLP encoding.
func (r *RevealedSparseTrie) revealChildOrHash(path Nibbles, child []byte) error {
	if len(child) == 33 && child[0] == 0xa0 {
		if _, exists := r.getNode(path); exists {
			return fmt.Errorf("trie: node already revealed at path %s", path)
		}
		r.setNode(path, sparseHashNode{hash: common.BytesToHash(child[1:])})
		return nil
	}
	return r.revealNodeRLP(path, child)
}

// UpdateLeaf inserts or overwrites the value at path. See spec.md §4.3.
func (r *RevealedSparseTrie) UpdateLeaf(path Nibbles, value []byte) error {
	r.prefixSet.Insert(path)

	if _, exists := r.values[path.key()]; exists {
		r.values[path.key()] = value
		r.paths[path.key()] = path
		return nil
	}

	current := Nibbles{}
	for {
		node, ok := r.getNode(current)
		if !ok {
			return fmt.Errorf("trie: no node at path %s during update_leaf", current)
		}
		switch n := node.(type) {
		case sparseEmptyNode:
			r.values[path.key()] = value
			r.paths[path.key()] = path
			r.setNode(current, newLeaf(path.Slice(current.Len(), path.Len())))
			return nil

		case sparseHashNode:
			return &BlindedNodeError{Path: current, Hash: n.hash}

		case *sparseLeafNode:
			full := current.AppendSlice(n.key)
			cp := full.CommonPrefixLength(path)

			newExtKey := full.Slice(current.Len(), cp)
			if newExtKey.Len() > 0 {
				r.setNode(current, newExtension(newExtKey))
			} else {
				// The extension would be empty: the split branch takes
				// this anchor directly, there is no extension to keep.
				r.deleteNode(current)
			}

			branchPath := full.Slice(0, cp)
			r.setNode(branchPath, newSplitBranch(full.At(cp), path.At(cp)))

			// full's own value is untouched; it stays keyed by full in
			// the values map, only its node moves one level down.
			fullLeafPath := full.Slice(0, cp+1)
			r.setNode(fullLeafPath, newLeaf(full.Slice(cp+1, full.Len())))

			newLeafPath := path.Slice(0, cp+1)
			r.setNode(newLeafPath, newLeaf(path.Slice(cp+1, path.Len())))
			r.values[path.key()] = value
			r.paths[path.key()] = path

			return nil

		case *sparseExtensionNode:
			next := current.AppendSlice(n.key)
			if path.StartsWith(next) {
				current = next
				continue
			}
			cp := next.CommonPrefixLength(path)

			shortened := next.Slice(current.Len(), cp)
			if shortened.Len() > 0 {
				r.setNode(current, newExtension(shortened))
			} else {
				r.deleteNode(current)
			}

			branchPath := next.Slice(0, cp)
			r.setNode(branchPath, newSplitBranch(next.At(cp), path.At(cp)))

			leaf := path.Slice(0, cp+1)
			r.values[path.key()] = value
			r.paths[path.key()] = path
			r.setNode(leaf, newLeaf(path.Slice(cp+1, path.Len())))

			tailKey := next.Slice(cp+1, next.Len())
			if tailKey.Len() > 0 {
				r.setNode(next.Slice(0, cp+1), newExtension(tailKey))
			}
			// else: the old child is already installed as a branch at
			// next, and stays exactly where it was.

			return nil

		case *sparseBranchNode:
			nib := path.At(current.Len())
			childPath := current.Append(nib)
			if !n.mask.IsSet(nib) {
				n.mask.Set(nib)
				r.setNode(childPath, newLeaf(path.Slice(childPath.Len(), path.Len())))
				r.values[path.key()] = value
				r.paths[path.key()] = path
				return nil
			}
			current = childPath

		default:
			return fmt.Errorf("trie: unknown node type %T at path %s", node, current)
		}
	}
}

// removedNode records one node taken out of the node map while walking
// down to a target leaf, along with enough context (branchNibble) to
// rebuild it once the leaf is gone. See spec.md §4.4.
type removedNode struct {
	anchor       Nibbles
	node         sparseNode
	branchNibble *byte // set only when node is a *sparseBranchNode
}

// takeNodesForPath walks root-down to path, removing every node it
// passes through from the node map and recording it, in root-to-leaf
// order, so remove_leaf can rebuild the ancestor chain bottom-up. The
// walk fails on Hash, like update_leaf's descent, and also on Empty.
func (r *RevealedSparseTrie) takeNodesForPath(path Nibbles) ([]removedNode, error) {
	var taken []removedNode
	current := Nibbles{}
	for {
		node, ok := r.getNode(current)
		if !ok {
			return nil, fmt.Errorf("trie: no node at path %s during remove_leaf", current)
		}
		r.deleteNode(current)

		switch n := node.(type) {
		case sparseEmptyNode:
			return nil, ErrBlind

		case sparseHashNode:
			return nil, &BlindedNodeError{Path: current, Hash: n.hash}

		case *sparseLeafNode:
			// The leaf we are deleting; no other leaf can occur mid-walk.
			taken = append(taken, removedNode{anchor: current, node: n})
			return taken, nil

		case *sparseExtensionNode:
			taken = append(taken, removedNode{anchor: current, node: n})
			current = current.AppendSlice(n.key)

		case *sparseBranchNode:
			nib := path.At(current.Len())
			taken = append(taken, removedNode{anchor: current, node: n, branchNibble: &nib})
			current = current.Append(nib)

		default:
			return nil, fmt.Errorf("trie: unknown node type %T at path %s", node, current)
		}
	}
}

// RemoveLeaf deletes the value at path, if present, collapsing any
// extension/branch ancestors left with too few children. See
// spec.md §4.4.
//
// On a BlindedNode or Blind error encountered partway through rebuilding
// the ancestor chain, this implementation follows the source: it is not
// restorative. The prefix set insertion and any nodes already taken out
// of the map stay gone; the caller must treat the error as fatal for
// this trie instance.
func (r *RevealedSparseTrie) RemoveLeaf(path Nibbles) error {
	r.prefixSet.Insert(path)

	if _, exists := r.values[path.key()]; !exists {
		return nil
	}
	delete(r.values, path.key())
	delete(r.paths, path.key())

	taken, err := r.takeNodesForPath(path)
	if err != nil {
		return err
	}

	// The last entry taken is always the target leaf itself; pop it as
	// the initial "child" the ancestor chain rebuilds around.
	child := taken[len(taken)-1]
	taken = taken[:len(taken)-1]

	// The removed leaf was the root: the trie is now empty.
	if len(taken) == 0 {
		r.setNode(Nibbles{}, sparseEmptyNode{})
		return nil
	}

	for i := len(taken) - 1; i >= 0; i-- {
		removed := taken[i]
		var newNode sparseNode

		switch n := removed.node.(type) {
		case sparseEmptyNode:
			return ErrBlind

		case sparseHashNode:
			return &BlindedNodeError{Path: removed.anchor, Hash: n.hash}

		case *sparseExtensionNode:
			childAnchor := removed.anchor.AppendSlice(n.key)
			switch c := child.node.(type) {
			case sparseEmptyNode:
				return ErrBlind
			case sparseHashNode:
				return &BlindedNodeError{Path: child.anchor, Hash: c.hash}
			case *sparseLeafNode:
				// Collapse the extension straight into the leaf below it,
				// extending its key; the now-redundant child entry goes.
				r.deleteNode(childAnchor)
				newNode = newLeaf(n.key.AppendSlice(c.key))
			case *sparseExtensionNode:
				r.deleteNode(childAnchor)
				newNode = newExtension(n.key.AppendSlice(c.key))
			case *sparseBranchNode:
				// A branch child needs no collapsing; the extension is
				// left exactly as it was.
				newNode = n
			default:
				return fmt.Errorf("trie: unexpected child type %T below extension at %s", child.node, removed.anchor)
			}

		case *sparseBranchNode:
			// Only the branch directly above the removed leaf loses a
			// child; higher branches keep theirs, rebuilt in place.
			if i == len(taken)-1 {
				n.mask.Unset(*removed.branchNibble)
			}

			if n.mask.Count() == 1 {
				c := n.mask.FirstSet()
				childAnchor := removed.anchor.Append(c)
				childNode, ok := r.getNode(childAnchor)
				if !ok {
					return fmt.Errorf("trie: missing sole remaining child at %s", childAnchor)
				}
				switch cn := childNode.(type) {
				case sparseEmptyNode:
					return ErrBlind
				case sparseHashNode:
					return &BlindedNodeError{Path: childAnchor, Hash: cn.hash}
				case *sparseLeafNode:
					// The sibling's own node entry is left exactly where it
					// is; only the branch at removed.anchor is replaced.
					newNode = newLeaf(FromNibbles(c).AppendSlice(cn.key))
				case *sparseExtensionNode:
					newNode = newExtension(FromNibbles(c).AppendSlice(cn.key))
				case *sparseBranchNode:
					newNode = newExtension(FromNibbles(c))
				default:
					return fmt.Errorf("trie: unexpected sole-child type %T at %s", childNode, childAnchor)
				}
			} else {
				newNode = n
			}

		default:
			return fmt.Errorf("trie: unexpected ancestor type %T at %s", removed.node, removed.anchor)
		}

		r.setNode(removed.anchor, newNode)
		child = removedNode{anchor: removed.anchor, node: newNode}
	}

	return nil
}
