package krb5

import (
	"time"

	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// The following are the tagged-field helpers every message type's
// Marshal/Unmarshal method calls, in field-declaration order, to build or
// walk its SEQUENCE. They exist so each message type doesn't hand-roll
// asn1.WriteTagged(n, asn1.WriteInteger(v)) inline at every field — the
// field list itself, not a derive macro, is still what drives the order.

func tagInt(n int, v uint32) []byte   { return asn1.WriteTagged(n, asn1.WriteInteger(v)) }
func tagSInt(n int, v int32) []byte   { return asn1.WriteTagged(n, asn1.WriteSInteger(v)) }
func tagBytes(n int, v []byte) []byte { return asn1.WriteTagged(n, asn1.WriteOctetString(v)) }
func tagTime(n int, v time.Time) []byte {
	return asn1.WriteTagged(n, asn1.WriteGeneralizedTime(v))
}
func tagBits(n int, v []byte) []byte { return asn1.WriteTagged(n, asn1.WriteBitString(v, 0)) }

// le32 little-endian encodes v, matching the byte order PA-FOR-USER's
// checksum input and RC4-HMAC's key-usage input both require.
func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// unixTime converts a Unix-seconds timestamp to the UTC time.Time the
// GeneralizedTime encoders expect. Ticket lifetimes are tracked as Unix
// seconds throughout this package so zero value (no timestamp) is
// unambiguous.
func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func tagStr(n int, v string) ([]byte, error) {
	s, err := asn1.WriteGeneralString(v)
	if err != nil {
		return nil, err
	}
	return asn1.WriteTagged(n, s), nil
}

// wantTagged consumes the next node unconditionally (for required fields)
// and returns its content after verifying the context tag number.
func wantTagged(sr *asn1.SequenceReader, n int) ([]byte, error) {
	node, err := sr.Next()
	if err != nil {
		return nil, err
	}
	return asn1.ReadTagged(node, n)
}

func readInt(sr *asn1.SequenceReader, n int) (uint32, error) {
	content, err := wantTagged(sr, n)
	if err != nil {
		return 0, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return 0, err
	}
	return asn1.ReadInteger(inner.Content)
}

func readSInt(sr *asn1.SequenceReader, n int) (int32, error) {
	content, err := wantTagged(sr, n)
	if err != nil {
		return 0, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return 0, err
	}
	return asn1.ReadSInteger(inner.Content)
}

func readBytes(sr *asn1.SequenceReader, n int) ([]byte, error) {
	content, err := wantTagged(sr, n)
	if err != nil {
		return nil, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return nil, err
	}
	return asn1.ReadOctetString(inner.Content)
}

func readStr(sr *asn1.SequenceReader, n int) (string, error) {
	content, err := wantTagged(sr, n)
	if err != nil {
		return "", err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return "", err
	}
	return asn1.ReadGeneralString(inner.Content)
}

func readTime(sr *asn1.SequenceReader, n int) (time.Time, error) {
	content, err := wantTagged(sr, n)
	if err != nil {
		return time.Time{}, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return time.Time{}, err
	}
	return asn1.ReadGeneralizedTime(inner.Content)
}

func readBits(sr *asn1.SequenceReader, n int) ([]byte, error) {
	content, err := wantTagged(sr, n)
	if err != nil {
		return nil, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return nil, err
	}
	bits, _, err := asn1.ReadBitString(inner.Content)
	return bits, err
}

// tryInt/tryTime/... mirror their read* counterparts but report absence
// (ok=false) rather than erroring when the next node's tag doesn't match n.
func tryInt(sr *asn1.SequenceReader, n int) (v uint32, ok bool, err error) {
	content, present, err := sr.TryTagged(n)
	if err != nil || !present {
		return 0, false, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return 0, false, err
	}
	v, err = asn1.ReadInteger(inner.Content)
	return v, true, err
}

func tryTime(sr *asn1.SequenceReader, n int) (v time.Time, ok bool, err error) {
	content, present, err := sr.TryTagged(n)
	if err != nil || !present {
		return time.Time{}, false, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return time.Time{}, false, err
	}
	v, err = asn1.ReadGeneralizedTime(inner.Content)
	return v, true, err
}

func tryBytes(sr *asn1.SequenceReader, n int) (v []byte, ok bool, err error) {
	content, present, err := sr.TryTagged(n)
	if err != nil || !present {
		return nil, false, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return nil, false, err
	}
	v, err = asn1.ReadOctetString(inner.Content)
	return v, true, err
}

func tryStr(sr *asn1.SequenceReader, n int) (v string, ok bool, err error) {
	content, present, err := sr.TryTagged(n)
	if err != nil || !present {
		return "", false, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return "", false, err
	}
	v, err = asn1.ReadGeneralString(inner.Content)
	return v, true, err
}

func tryBits(sr *asn1.SequenceReader, n int) (v []byte, ok bool, err error) {
	content, present, err := sr.TryTagged(n)
	if err != nil || !present {
		return nil, false, err
	}
	inner, _, err := asn1.ReadSingle(content)
	if err != nil {
		return nil, false, err
	}
	v, _, err = asn1.ReadBitString(inner.Content)
	return v, true, err
}

// nodeContentOf unwraps a single inner TLV from the bytes returned by
// wantTagged/TryTagged, for fields whose value is itself a nested message
// (PrincipalName, Ticket, EncryptionKey, ...) rather than a primitive.
func nodeContentOf(data []byte) (asn1.Node, error) {
	node, rest, err := asn1.ReadSingle(data)
	if err != nil {
		return asn1.Node{}, err
	}
	if len(rest) != 0 {
		return asn1.Node{}, kerrors.New(kerrors.Parsing, "trailing bytes in tagged field")
	}
	return node, nil
}

// wrapApplication wraps an already-built SEQUENCE TLV (seq) in an explicit
// application tag, the framing every top-level Kerberos message uses.
func wrapApplication(tag int, seq []byte) []byte {
	return asn1.WriteApplication(tag, seq)
}

// unwrapApplication reverses wrapApplication: given the full encoded
// message bytes, verify the application tag and return the inner
// SEQUENCE's content (its child nodes), ready for a SequenceReader.
func unwrapApplication(data []byte, tag int) ([]byte, error) {
	outer, err := asn1.ReadOuter(data)
	if err != nil {
		return nil, err
	}
	content, err := asn1.ReadApplication(outer, tag)
	if err != nil {
		return nil, err
	}
	seqNode, err := nodeContentOf(content)
	if err != nil {
		return nil, err
	}
	if seqNode.Tag != asn1.TagSequence {
		return nil, kerrors.New(kerrors.InvalidConst, "application content is not a SEQUENCE")
	}
	return seqNode.Content, nil
}
