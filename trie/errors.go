package trie

import (
	"errors"
	"fmt"

	"github.com/jaiminpan/sparsetrie/common"
)

// ErrBlind is returned when a mutation is attempted on a trie that has
// not been revealed yet, or when traversal reaches an Empty node where
// the structure demanded a real one.
var ErrBlind = errors.New("trie: blind")

// BlindedNodeError reports that traversal hit an opaque Hash node and
// needs the caller to reveal that subtree before retrying. It plays the
// same role MissingNodeError plays at the teacher's trie_reader.go call
// sites for a disk-backed trie that has to fetch a node before
// proceeding — except here there is no database to fetch from, only the
// caller's own reveal stream.
type BlindedNodeError struct {
	Path Nibbles
	Hash common.Hash
}

func (e *BlindedNodeError) Error() string {
	return fmt.Sprintf("trie: blinded node at path %s (hash %s)", e.Path, e.Hash.Hex())
}

// RlpDecodeError wraps a failure to RLP-decode a revealed node's bytes.
type RlpDecodeError struct {
	Err error
}

func (e *RlpDecodeError) Error() string { return fmt.Sprintf("trie: rlp decode: %v", e.Err) }

func (e *RlpDecodeError) Unwrap() error { return e.Err }
