package pac

import (
	"encoding/binary"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func utf16le(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

func TestFileTimeSentinelIsEpoch(t *testing.T) {
	var ft FileTime
	assert.Equal(t, time.Unix(0, 0).UTC(), ft.Time())

	ft = FileTime{Low: 0xFFFFFFFF, High: 0x7FFFFFFF}
	assert.Equal(t, time.Unix(0, 0).UTC(), ft.Time())
}

func TestFileTimeKnownValue(t *testing.T) {
	ft := FileTime{Low: 3329032192, High: 31070023}
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), ft.Time())
}

func TestParsePacClientInfo(t *testing.T) {
	name := "alice"
	nameBytes := utf16le(name)

	var buf []byte
	buf = append(buf, le32(3329032192)...) // FileTime.Low
	buf = append(buf, le32(31070023)...)   // FileTime.High
	buf = append(buf, le16(uint16(len(nameBytes)))...)
	buf = append(buf, nameBytes...)

	info, err := parsePacClientInfo(buf)
	require.NoError(t, err)
	assert.Equal(t, name, info.Name)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), info.ClientID.Time())
}

func TestParseUpnDnsInfo(t *testing.T) {
	upn := "alice@contoso.com"
	dns := "CONTOSO.COM"
	upnBytes := utf16le(upn)
	dnsBytes := utf16le(dns)

	header := make([]byte, 0, 12)
	header = append(header, le16(uint16(len(upnBytes)))...)
	header = append(header, le16(20)...) // upn offset, right after this 12-byte header + padding below
	header = append(header, le16(uint16(len(dnsBytes)))...)
	header = append(header, le16(uint16(20+len(upnBytes)))...)
	header = append(header, le32(0)...) // flags

	buf := append([]byte(nil), header...)
	for len(buf) < 20 {
		buf = append(buf, 0)
	}
	buf = append(buf, upnBytes...)
	buf = append(buf, dnsBytes...)

	info, err := parseUpnDnsInfo(buf)
	require.NoError(t, err)
	assert.Equal(t, upn, info.UPN)
	assert.Equal(t, dns, info.DNS)
}

func TestParsePacSignatureDataHMACMD5(t *testing.T) {
	sig := make([]byte, 16)
	for i := range sig {
		sig[i] = byte(i)
	}
	buf := append(le32(SigHMACMD5), sig...)

	data, err := parsePacSignatureData(buf)
	require.NoError(t, err)
	assert.Equal(t, SigHMACMD5, data.SignatureType)
	assert.Equal(t, sig, data.Signature)
	assert.Nil(t, data.RODCIdentifier)
}

func TestParsePacSignatureDataWithRODCIdentifier(t *testing.T) {
	sig := make([]byte, 12)
	buf := append(le32(SigHMACSHA196AES128), sig...)
	buf = append(buf, le16(7)...)

	data, err := parsePacSignatureData(buf)
	require.NoError(t, err)
	require.NotNil(t, data.RODCIdentifier)
	assert.Equal(t, uint16(7), *data.RODCIdentifier)
}

func TestParsePacSignatureDataUnknownType(t *testing.T) {
	buf := append(le32(0xDEADBEEF), make([]byte, 16)...)
	_, err := parsePacSignatureData(buf)
	assert.Error(t, err)
}

func TestParseDispatchesClientInfoBuffer(t *testing.T) {
	name := "bob"
	nameBytes := utf16le(name)
	var clientInfo []byte
	clientInfo = append(clientInfo, le32(0)...)
	clientInfo = append(clientInfo, le32(0)...)
	clientInfo = append(clientInfo, le16(uint16(len(nameBytes)))...)
	clientInfo = append(clientInfo, nameBytes...)

	var pac []byte
	pac = append(pac, le32(1)...) // cBuffers
	pac = append(pac, le32(0)...) // version
	pac = append(pac, le32(BufferClientInfo)...)
	pac = append(pac, le32(uint32(len(clientInfo)))...)
	pac = append(pac, make([]byte, 8)...) // offset placeholder, patched below

	offset := uint64(len(pac))
	binary.LittleEndian.PutUint64(pac[len(pac)-8:], offset)
	pac = append(pac, clientInfo...)

	parsed, err := Parse(pac)
	require.NoError(t, err)
	require.Len(t, parsed.Buffers, 1)
	require.NotNil(t, parsed.Buffers[0].ClientInfo)
	assert.Equal(t, name, parsed.Buffers[0].ClientInfo.Name)
}

func TestParseUnknownBufferTypeErrors(t *testing.T) {
	var pac []byte
	pac = append(pac, le32(1)...)
	pac = append(pac, le32(0)...)
	pac = append(pac, le32(0xFF)...)
	pac = append(pac, le32(0)...)
	pac = append(pac, make([]byte, 8)...)

	_, err := Parse(pac)
	assert.Error(t, err)
}
