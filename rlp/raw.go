// Package rlp implements the small subset of Ethereum's Recursive Length
// Prefix encoding the trie package needs: splitting an encoded buffer back
// into its string/list items (for decoding revealed nodes) and appending
// string/list items to a reusable buffer (for the root/RLP engine). It
// mirrors the surface the teacher imports as
// "github.com/jaiminpan/mt-trie/rlp" in trie_node_dec.go
// (SplitList/SplitString/CountValues/Split).
package rlp

import (
	"errors"
	"io"
)

// Kind distinguishes the two RLP item shapes.
type Kind int

const (
	String Kind = iota
	List
)

var (
	// ErrExpectedString is returned when a list was found where a string
	// item was expected.
	ErrExpectedString = errors.New("rlp: expected String or Byte")
	// ErrExpectedList is returned when a string was found where a list
	// item was expected.
	ErrExpectedList = errors.New("rlp: expected List")
	// ErrCanonSize is returned when a length prefix carries leading
	// zero bytes.
	ErrCanonSize = errors.New("rlp: non-canonical size information")
)

// Split reads a single RLP item (string or list) from the front of b and
// returns its kind, its content (the payload, not including the header),
// and the remaining bytes following the item.
func Split(b []byte) (k Kind, content []byte, rest []byte, err error) {
	k, tagSize, size, err := readKind(b)
	if err != nil {
		return 0, nil, b, err
	}
	return k, b[tagSize : tagSize+size], b[tagSize+size:], nil
}

// SplitString behaves like Split but requires the item to be a string,
// returning ErrExpectedString otherwise.
func SplitString(b []byte) (content []byte, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k != String {
		return nil, b, ErrExpectedString
	}
	return content, rest, nil
}

// SplitList behaves like Split but requires the item to be a list,
// returning ErrExpectedList otherwise.
func SplitList(b []byte) (content []byte, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k != List {
		return nil, b, ErrExpectedList
	}
	return content, rest, nil
}

// Item reads a single RLP item (string or list) from the front of b and
// returns its complete encoding (header and content together) along with
// the remaining bytes. Unlike Split, which strips the header, Item is
// used when the caller needs to re-embed or classify the item as a whole
// (e.g. deciding whether a branch child reference is the 33-byte hash
// form or an embedded node).
func Item(b []byte) (item []byte, rest []byte, err error) {
	_, tagSize, size, err := readKind(b)
	if err != nil {
		return nil, b, err
	}
	return b[:tagSize+size], b[tagSize+size:], nil
}

// CountValues counts the number of encoded items in b, where b is the
// (already unwrapped) content of a list.
func CountValues(b []byte) (int, error) {
	count := 0
	for len(b) > 0 {
		_, tagSize, size, err := readKind(b)
		if err != nil {
			return 0, err
		}
		b = b[tagSize+size:]
		count++
	}
	return count, nil
}

func readKind(buf []byte) (kind Kind, tagSize, size uint64, err error) {
	if len(buf) == 0 {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}
	b0 := buf[0]
	switch {
	case b0 < 0x80:
		// Single byte, self-encoded: treated as a 1-byte string.
		kind, tagSize, size = String, 0, 1
	case b0 < 0xB8:
		kind, tagSize, size = String, 1, uint64(b0-0x80)
	case b0 < 0xC0:
		kind = String
		tagSize = uint64(b0-0xB7) + 1
		size, err = readSize(buf[1:], b0-0xB7)
	case b0 < 0xF8:
		kind, tagSize, size = List, 1, uint64(b0-0xC0)
	default:
		kind = List
		tagSize = uint64(b0-0xF7) + 1
		size, err = readSize(buf[1:], b0-0xF7)
	}
	if err != nil {
		return 0, 0, 0, err
	}
	if tagSize+size > uint64(len(buf)) {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}
	return kind, tagSize, size, nil
}

func readSize(b []byte, slen byte) (uint64, error) {
	if int(slen) > len(b) {
		return 0, io.ErrUnexpectedEOF
	}
	var s uint64
	switch slen {
	case 1:
		s = uint64(b[0])
	case 2:
		s = uint64(b[0])<<8 | uint64(b[1])
	case 3:
		s = uint64(b[0])<<16 | uint64(b[1])<<8 | uint64(b[2])
	case 4:
		s = uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
	default:
		// sizes above 4 bytes would overflow any realistic trie node;
		// reject them rather than silently truncating.
		return 0, ErrCanonSize
	}
	if s < 56 || b[0] == 0 {
		return 0, ErrCanonSize
	}
	return s, nil
}
