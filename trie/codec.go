package trie

import (
	"fmt"
	"strings"

	"github.com/jaiminpan/sparsetrie/rlp"
)

// decodeError wraps a decoding failure with the path through the node
// where it occurred, the same "decode path" breadcrumb the teacher's
// trie_node_dec.go attaches via wrapError/decodeError.
type decodeError struct {
	what  error
	stack []string
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("%v (decode path: %s)", e.what, strings.Join(e.stack, "<-"))
}

func (e *decodeError) Unwrap() error { return e.what }

func wrapDecodeError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*decodeError); ok {
		de.stack = append(de.stack, ctx)
		return de
	}
	return &decodeError{what: err, stack: []string{ctx}}
}

// decodeWireNode parses the RLP encoding of a single trie node: either
// the one-byte empty-root marker, a 2-element [key, value-or-child] list
// (leaf or extension, disambiguated by the hex-prefix terminator bit), or
// a 17-element branch list.
func decodeWireNode(buf []byte) (wireNode, error) {
	if len(buf) == 0 {
		return wireNode{}, &RlpDecodeError{Err: fmt.Errorf("trie: empty node encoding")}
	}
	if len(buf) == 1 && buf[0] == 0x80 {
		return wireNode{kind: wireEmptyRoot}, nil
	}

	elems, _, err := rlp.SplitList(buf)
	if err != nil {
		return wireNode{}, &RlpDecodeError{Err: fmt.Errorf("decode error: %w", err)}
	}
	count, err := rlp.CountValues(elems)
	if err != nil {
		return wireNode{}, &RlpDecodeError{Err: fmt.Errorf("decode error: %w", err)}
	}
	switch count {
	case 2:
		n, err := decodeShortWireNode(elems)
		if err != nil {
			return wireNode{}, &RlpDecodeError{Err: wrapDecodeError(err, "short")}
		}
		return n, nil
	case 17:
		n, err := decodeFullWireNode(elems)
		if err != nil {
			return wireNode{}, &RlpDecodeError{Err: wrapDecodeError(err, "full")}
		}
		return n, nil
	default:
		return wireNode{}, &RlpDecodeError{Err: fmt.Errorf("invalid number of list elements: %d", count)}
	}
}

func decodeShortWireNode(elems []byte) (wireNode, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return wireNode{}, err
	}
	key, terminator, err := decodeHexPrefix(kbuf)
	if err != nil {
		return wireNode{}, err
	}
	if terminator {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return wireNode{}, fmt.Errorf("invalid leaf value: %w", err)
		}
		return wireNode{kind: wireLeaf, leafKey: key, leafValue: val}, nil
	}
	child, _, err := rlp.Item(rest)
	if err != nil {
		return wireNode{}, wrapDecodeError(err, "val")
	}
	return wireNode{kind: wireExtension, extKey: key, extChild: child}, nil
}

func decodeFullWireNode(elems []byte) (wireNode, error) {
	var (
		mask     TrieMask
		children [][]byte
	)
	for i := 0; i < 16; i++ {
		item, rest, err := rlp.Item(elems)
		if err != nil {
			return wireNode{}, wrapDecodeError(err, fmt.Sprintf("[%d]", i))
		}
		elems = rest
		if !(len(item) == 1 && item[0] == 0x80) {
			mask.Set(byte(i))
			children = append(children, item)
		}
	}
	// 17th slot: the value slot. Branches in this model never carry a
	// value directly (leaves always terminate the path instead), so it
	// must be empty; a non-empty slot indicates a node shape this engine
	// does not support.
	val, _, err := rlp.SplitString(elems)
	if err != nil {
		return wireNode{}, err
	}
	if len(val) != 0 {
		return wireNode{}, fmt.Errorf("branch node carries a value, unsupported")
	}
	if mask.Count() < 2 {
		return wireNode{}, fmt.Errorf("branch node with fewer than 2 children")
	}
	return wireNode{kind: wireBranch, branchMask: mask, branchChildren: children}, nil
}
