package rlp

// EmptyString is the encoding of an empty RLP string (used for an empty
// value slot and for a nil branch-child reference).
var EmptyString = []byte{0x80}

// EncoderBuffer is a reusable scratch buffer for building RLP node
// encodings. Nodes are encoded depth-first: a caller appends each child's
// raw encoding (itself produced by a previous, possibly embedded, encode)
// with WriteRaw/WriteString, then wraps the accumulated body in a list
// header with StartList/EndList. Reset lets the caller reuse the backing
// array across many nodes instead of allocating per node.
type EncoderBuffer struct {
	buf []byte
}

// NewEncoderBuffer returns an empty encoder buffer.
func NewEncoderBuffer() *EncoderBuffer {
	return &EncoderBuffer{}
}

// Reset truncates the buffer, retaining its backing array.
func (b *EncoderBuffer) Reset() {
	b.buf = b.buf[:0]
}

// Bytes returns the accumulated encoding. The slice is only valid until
// the next call that mutates the buffer.
func (b *EncoderBuffer) Bytes() []byte {
	return b.buf
}

// WriteString appends the RLP string encoding of s.
func (b *EncoderBuffer) WriteString(s []byte) {
	b.buf = AppendString(b.buf, s)
}

// WriteRaw appends raw, already RLP-encoded bytes verbatim. Used to embed
// a child's complete encoding (inline node or 33-byte hash form) directly
// into a parent list without re-wrapping it.
func (b *EncoderBuffer) WriteRaw(raw []byte) {
	b.buf = append(b.buf, raw...)
}

// StartList marks the current buffer length as the start of a list body.
func (b *EncoderBuffer) StartList() int {
	return len(b.buf)
}

// EndList wraps everything written since the matching StartList in an RLP
// list header.
func (b *EncoderBuffer) EndList(mark int) {
	body := append([]byte(nil), b.buf[mark:]...)
	b.buf = append(b.buf[:mark], AppendListHeader(len(body))...)
	b.buf = append(b.buf, body...)
}

// AppendString appends the RLP string encoding of s to dst and returns
// the extended slice.
func AppendString(dst []byte, s []byte) []byte {
	switch {
	case len(s) == 1 && s[0] < 0x80:
		return append(dst, s[0])
	case len(s) <= 55:
		dst = append(dst, 0x80+byte(len(s)))
		return append(dst, s...)
	default:
		dst = appendLongHeader(dst, 0xB7, len(s))
		return append(dst, s...)
	}
}

// AppendListHeader returns the header bytes for a list body of the given
// length.
func AppendListHeader(bodyLen int) []byte {
	if bodyLen <= 55 {
		return []byte{0xC0 + byte(bodyLen)}
	}
	return appendLongHeader(nil, 0xF7, bodyLen)
}

func appendLongHeader(dst []byte, base byte, n int) []byte {
	var size [8]byte
	i := len(size)
	for n > 0 {
		i--
		size[i] = byte(n)
		n >>= 8
	}
	lenBytes := size[i:]
	dst = append(dst, base+byte(len(lenBytes)))
	return append(dst, lenBytes...)
}
