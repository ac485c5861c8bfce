package asn1

import "github.com/smnsjas/go-kerlab/kerrors"

// WriteSequence wraps the concatenation of already-encoded field TLVs in a
// universal constructed SEQUENCE tag. Each element of fields is expected to
// already be a complete, independently-tagged TLV (typically produced by
// WriteTagged for a struct field, or another WriteSequence/WriteApplication
// call for a nested message).
func WriteSequence(fields ...[]byte) []byte {
	var content []byte
	for _, f := range fields {
		content = append(content, f...)
	}
	b, _ := writeTLV(ClassUniversal, true, TagSequence, content)
	return b
}

// WriteSequenceOf wraps a slice of already-encoded element TLVs in a
// universal constructed SEQUENCE tag. SEQUENCE OF uses the same wire
// encoding as SEQUENCE; the two tag numbers are distinguished only by the
// schema, not by anything on the wire.
func WriteSequenceOf(elements ...[]byte) []byte {
	return WriteSequence(elements...)
}

// WriteTagged wraps an already-encoded inner TLV in an explicit context tag
// [number]. Kerberos never uses implicit tagging for struct fields, so the
// inner TLV's own tag and length survive inside the context wrapper.
func WriteTagged(number int, inner []byte) []byte {
	b, _ := writeTLV(ClassContext, true, number, inner)
	return b
}

// WriteApplication wraps an already-encoded inner TLV (always a SEQUENCE)
// in an explicit application tag [APPLICATION number]. This is how every
// top-level Kerberos message (AS-REQ, AS-REP, AP-REQ, ...) is tagged.
func WriteApplication(number int, inner []byte) []byte {
	b, _ := writeTLV(ClassApplication, true, number, inner)
	return b
}

// ReadTagged verifies that node is an explicit context tag with the given
// number and returns its content, which is itself a single inner TLV ready
// for further decoding.
func ReadTagged(node Node, number int) ([]byte, error) {
	if node.Class != ClassContext || node.Tag != number {
		return nil, kerrors.Newf(kerrors.InvalidConst, "expected context tag [%d], got class=%d tag=%d", number, node.Class, node.Tag)
	}
	return node.Content, nil
}

// ReadApplication verifies that node is an explicit application tag with
// the given number and returns its content.
func ReadApplication(node Node, number int) ([]byte, error) {
	if node.Class != ClassApplication || node.Tag != number {
		return nil, kerrors.Newf(kerrors.InvalidConst, "expected application tag [APPLICATION %d], got class=%d tag=%d", number, node.Class, node.Tag)
	}
	return node.Content, nil
}

// ReadOuter parses data as a single top-level TLV and returns the parsed
// node. It is an error for data to contain trailing bytes after the node.
func ReadOuter(data []byte) (Node, error) {
	node, rest, err := readTLV(data)
	if err != nil {
		return Node{}, err
	}
	if len(rest) != 0 {
		return Node{}, kerrors.New(kerrors.Parsing, "trailing bytes after top-level TLV")
	}
	return node, nil
}

// ReadSingle parses data as a single TLV and returns the node plus any
// bytes remaining afterward (used when more than one top-level value is
// expected to follow, which Kerberos's transport framing handles itself).
func ReadSingle(data []byte) (Node, []byte, error) {
	return readTLV(data)
}

// SequenceReader walks the child TLVs inside a SEQUENCE's content octets in
// order, one at a time. It supports peeking the next node's tag without
// consuming it, which is how Optional struct fields decide whether to
// claim the next node or leave it for a later required field.
type SequenceReader struct {
	data []byte
}

// NewSequenceReader creates a SequenceReader over a SEQUENCE node's content.
func NewSequenceReader(content []byte) *SequenceReader {
	return &SequenceReader{data: content}
}

// Done reports whether every child node has been consumed.
func (r *SequenceReader) Done() bool {
	return len(r.data) == 0
}

// PeekTag returns the class and tag number of the next node without
// consuming it. ok is false if there is no next node.
func (r *SequenceReader) PeekTag() (class Class, tag int, ok bool) {
	if len(r.data) == 0 {
		return 0, 0, false
	}
	node, _, err := readTLV(r.data)
	if err != nil {
		return 0, 0, false
	}
	return node.Class, node.Tag, true
}

// Next consumes and returns the next child node.
func (r *SequenceReader) Next() (Node, error) {
	if len(r.data) == 0 {
		return Node{}, kerrors.New(kerrors.Parsing, "sequence exhausted")
	}
	node, rest, err := readTLV(r.data)
	if err != nil {
		return Node{}, err
	}
	r.data = rest
	return node, nil
}

// TryTagged peeks the next node; if it is a context tag with the given
// number, it consumes it and returns its content with ok=true. Otherwise
// the reader is left untouched and ok is false. This is the primitive an
// Optional[T] field uses.
func (r *SequenceReader) TryTagged(number int) (content []byte, ok bool, err error) {
	class, tag, has := r.PeekTag()
	if !has || class != ClassContext || tag != number {
		return nil, false, nil
	}
	node, err := r.Next()
	if err != nil {
		return nil, false, err
	}
	return node.Content, true, nil
}
