package asn1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerRoundTrip(t *testing.T) {
	tlv := WriteInteger(5)
	assert.Equal(t, []byte{0x02, 0x01, 0x05}, tlv)

	node, rest, err := ReadSingle(tlv)
	require.NoError(t, err)
	assert.Empty(t, rest)
	v, err := ReadInteger(node.Content)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)
}

func TestGeneralizedTimeRoundTrip(t *testing.T) {
	ts := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	tlv := WriteGeneralizedTime(ts)
	node, _, err := ReadSingle(tlv)
	require.NoError(t, err)
	got, err := ReadGeneralizedTime(node.Content)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestBitAtMSBFirst(t *testing.T) {
	// bit 0 is the MSB of the first byte.
	bits := []byte{0x80}
	assert.True(t, BitAt(bits, 0))
	assert.False(t, BitAt(bits, 1))

	set := SetBit(nil, 8)
	assert.True(t, BitAt(set, 8))
}

// TestOptionalFieldSoftMismatch reproduces the fixture from the original
// Rust codec's own test: a three-field sequence where the middle field is
// optional and may be entirely absent from the wire.
func TestOptionalFieldSoftMismatch(t *testing.T) {
	// SEQUENCE { [0] INTEGER 1, [2] INTEGER 3 } -- field 1 (tag 1) absent.
	withoutMiddle := []byte{0x30, 0x0a, 0xa0, 0x03, 0x02, 0x01, 0x01, 0xa2, 0x03, 0x02, 0x01, 0x03}

	outer, err := ReadOuter(withoutMiddle)
	require.NoError(t, err)
	require.Equal(t, TagSequence, outer.Tag)

	sr := NewSequenceReader(outer.Content)

	field0Content, ok, err := sr.TryTagged(0)
	require.NoError(t, err)
	require.True(t, ok)
	v0, err := ReadInteger(mustSingle(t, field0Content))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v0)

	_, ok, err = sr.TryTagged(1)
	require.NoError(t, err)
	assert.False(t, ok, "optional field 1 must report absent without consuming")

	field2Content, ok, err := sr.TryTagged(2)
	require.NoError(t, err)
	require.True(t, ok)
	v2, err := ReadInteger(mustSingle(t, field2Content))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), v2)

	assert.True(t, sr.Done())

	// SEQUENCE { [0] INTEGER 1, [1] INTEGER 2, [2] INTEGER 3 } -- present.
	withMiddle := []byte{0x30, 0x0f, 0xa0, 0x03, 0x02, 0x01, 0x01, 0xa1, 0x03, 0x02, 0x01, 0x02, 0xa2, 0x03, 0x02, 0x01, 0x03}
	outer2, err := ReadOuter(withMiddle)
	require.NoError(t, err)
	sr2 := NewSequenceReader(outer2.Content)
	_, _, _ = sr2.TryTagged(0)
	mid, ok, err := sr2.TryTagged(1)
	require.NoError(t, err)
	require.True(t, ok)
	v1, err := ReadInteger(mustSingle(t, mid))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), v1)
}

func mustSingle(t *testing.T, data []byte) []byte {
	t.Helper()
	node, rest, err := ReadSingle(data)
	require.NoError(t, err)
	require.Empty(t, rest)
	return node.Content
}

func TestApplicationTagRoundTrip(t *testing.T) {
	inner := WriteSequence(WriteTagged(0, WriteInteger(5)))
	wrapped := WriteApplication(10, inner)

	node, err := ReadOuter(wrapped)
	require.NoError(t, err)
	content, err := ReadApplication(node, 10)
	require.NoError(t, err)

	seqNode, _, err := ReadSingle(content)
	require.NoError(t, err)
	require.Equal(t, TagSequence, seqNode.Tag)

	sr := NewSequenceReader(seqNode.Content)
	fieldContent, ok, err := sr.TryTagged(0)
	require.NoError(t, err)
	require.True(t, ok)
	v, err := ReadInteger(mustSingle(t, fieldContent))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)
}
