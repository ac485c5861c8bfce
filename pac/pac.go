package pac

import (
	"unicode/utf16"

	"github.com/smnsjas/go-kerlab/kerrors"
)

// Buffer type codes dispatched by PACTYPE's PAC_INFO_BUFFER.ulType.
const (
	BufferKerbValidationInfo uint32 = 0x00000001
	BufferServerChecksum     uint32 = 0x00000006
	BufferKDCChecksum        uint32 = 0x00000007
	BufferClientInfo         uint32 = 0x0000000A
	BufferUpnDnsInfo         uint32 = 0x0000000C
)

// Signature type codes and their fixed signature lengths, from
// MS-PAC §2.8.2.
const (
	SigHMACMD5        uint32 = 0xFFFFFF76
	SigHMACSHA196AES128 uint32 = 0x0000000F
	SigHMACSHA196AES256 uint32 = 0x00000010
)

func signatureLength(sigType uint32) (int, error) {
	switch sigType {
	case SigHMACMD5:
		return 16, nil
	case SigHMACSHA196AES128, SigHMACSHA196AES256:
		return 12, nil
	default:
		return 0, kerrors.Newf(kerrors.Parsing, "pac: unknown checksum type %#x", sigType)
	}
}

func readUTF16(buf []byte) (string, error) {
	if len(buf)%2 != 0 {
		return "", kerrors.New(kerrors.Parsing, "pac: odd-length utf16 string")
	}
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = uint16(buf[2*i]) | uint16(buf[2*i+1])<<8
	}
	return string(utf16.Decode(units)), nil
}

// infoBuffer is a raw PAC_INFO_BUFFER entry: type, size, and an offset
// into the enclosing AuthorizationData blob.
type infoBuffer struct {
	ulType       uint32
	cbBufferSize uint32
	offset       uint64
}

func (b *infoBuffer) read(c *cursor) error {
	var err error
	if b.ulType, err = c.u32(); err != nil {
		return err
	}
	if b.cbBufferSize, err = c.u32(); err != nil {
		return err
	}
	b.offset, err = c.u64()
	return err
}

func (b *infoBuffer) view(whole []byte) ([]byte, error) {
	start := int(b.offset)
	end := start + int(b.cbBufferSize)
	if start < 0 || end < start || end > len(whole) {
		return nil, kerrors.New(kerrors.Parsing, "pac: info buffer out of range")
	}
	return whole[start:end], nil
}

// Buffer is the decoded contents of one PAC_INFO_BUFFER, tagged by its
// ulType so a caller can type-switch without re-deriving it.
type Buffer struct {
	Type             uint32
	KerbValidation   *KerbValidationInfo
	ClientInfo       *PacClientInfo
	UpnDns           *UpnDnsInfo
	ServerChecksum   *PacSignatureData
	KDCChecksum      *PacSignatureData
}

// PACType is the top-level PACTYPE structure: a header naming how many
// buffers follow plus the decoded buffers themselves.
type PACType struct {
	Version uint32
	Buffers []Buffer
}

// Parse decodes a PACTYPE from the raw bytes of an AD-WIN2K-PAC
// AuthorizationData element.
func Parse(data []byte) (*PACType, error) {
	c := newCursor(data)
	cBuffers, err := c.u32()
	if err != nil {
		return nil, err
	}
	version, err := c.u32()
	if err != nil {
		return nil, err
	}

	entries := make([]infoBuffer, 0, cBuffers)
	for i := uint32(0); i < cBuffers; i++ {
		var ib infoBuffer
		if err := ib.read(c); err != nil {
			return nil, err
		}
		entries = append(entries, ib)
	}

	pt := &PACType{Version: version, Buffers: make([]Buffer, 0, len(entries))}
	for _, ib := range entries {
		view, err := ib.view(data)
		if err != nil {
			return nil, err
		}
		buf := Buffer{Type: ib.ulType}
		switch ib.ulType {
		case BufferKerbValidationInfo:
			buf.KerbValidation, err = parseKerbValidationInfo(view)
		case BufferServerChecksum:
			buf.ServerChecksum, err = parsePacSignatureData(view)
		case BufferKDCChecksum:
			buf.KDCChecksum, err = parsePacSignatureData(view)
		case BufferClientInfo:
			buf.ClientInfo, err = parsePacClientInfo(view)
		case BufferUpnDnsInfo:
			buf.UpnDns, err = parseUpnDnsInfo(view)
		default:
			err = kerrors.Newf(kerrors.Parsing, "pac: unimplemented buffer type %#x", ib.ulType)
		}
		if err != nil {
			return nil, err
		}
		pt.Buffers = append(pt.Buffers, buf)
	}
	return pt, nil
}

// KerbValidationInfo is a partial decode of MS-PAC's largest buffer: the
// NDR header, six FILETIME fields, and the effective-name header. The
// remaining fields (full_name, logon_scripts, profile_path, group
// memberships, SIDs, ...) are conformant-array heavy NDR this package
// does not attempt to walk; see the package doc comment.
type KerbValidationInfo struct {
	CommonHeader     CommonTypeHeader
	PrivateHeader    PrivateHeader
	LogonTime        FileTime
	LogoffTime       FileTime
	KickOffTime      FileTime
	PasswordLastSet  FileTime
	PasswordCanChange FileTime
	PasswordMustChange FileTime
	EffectiveName    RpcUnicodeString
}

func parseKerbValidationInfo(buf []byte) (*KerbValidationInfo, error) {
	c := newCursor(buf)
	v := &KerbValidationInfo{}
	if err := v.CommonHeader.read(c); err != nil {
		return nil, err
	}
	if err := v.PrivateHeader.read(c); err != nil {
		return nil, err
	}
	if _, err := c.u32(); err != nil { // padding
		return nil, err
	}
	for _, ft := range []*FileTime{
		&v.LogonTime, &v.LogoffTime, &v.KickOffTime,
		&v.PasswordLastSet, &v.PasswordCanChange, &v.PasswordMustChange,
	} {
		if err := ft.read(c); err != nil {
			return nil, err
		}
	}
	if err := v.EffectiveName.read(c); err != nil {
		return nil, err
	}
	return v, nil
}

// PacClientInfo names the client principal the PAC was issued to.
type PacClientInfo struct {
	ClientID FileTime
	Name     string
}

func parsePacClientInfo(buf []byte) (*PacClientInfo, error) {
	c := newCursor(buf)
	info := &PacClientInfo{}
	if err := info.ClientID.read(c); err != nil {
		return nil, err
	}
	nameLength, err := c.u16()
	if err != nil {
		return nil, err
	}
	nameBytes, err := c.bytes(int(nameLength))
	if err != nil {
		return nil, err
	}
	info.Name, err = readUTF16(nameBytes)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// UpnDnsInfo carries the client's userPrincipalName and DNS domain name,
// each addressed by an offset/length pair relative to this buffer.
type UpnDnsInfo struct {
	Flags uint32
	UPN   string
	DNS   string
}

func parseUpnDnsInfo(buf []byte) (*UpnDnsInfo, error) {
	c := newCursor(buf)
	var upnLength, upnOffset, dnsLength, dnsOffset uint16
	var err error
	if upnLength, err = c.u16(); err != nil {
		return nil, err
	}
	if upnOffset, err = c.u16(); err != nil {
		return nil, err
	}
	if dnsLength, err = c.u16(); err != nil {
		return nil, err
	}
	if dnsOffset, err = c.u16(); err != nil {
		return nil, err
	}
	flags, err := c.u32()
	if err != nil {
		return nil, err
	}

	slice := func(offset, length uint16) ([]byte, error) {
		start, end := int(offset), int(offset)+int(length)
		if start < 0 || end < start || end > len(buf) {
			return nil, kerrors.New(kerrors.Parsing, "pac: upn/dns offset out of range")
		}
		return buf[start:end], nil
	}

	upnBytes, err := slice(upnOffset, upnLength)
	if err != nil {
		return nil, err
	}
	dnsBytes, err := slice(dnsOffset, dnsLength)
	if err != nil {
		return nil, err
	}
	upn, err := readUTF16(upnBytes)
	if err != nil {
		return nil, err
	}
	dns, err := readUTF16(dnsBytes)
	if err != nil {
		return nil, err
	}
	return &UpnDnsInfo{Flags: flags, UPN: upn, DNS: dns}, nil
}

// PacSignatureData is a ServerChecksum or KDCChecksum buffer: a
// signature over the rest of the PAC, and for RODC-issued tickets a
// trailing key version identifier.
type PacSignatureData struct {
	SignatureType   uint32
	Signature       []byte
	RODCIdentifier  *uint16
}

func parsePacSignatureData(buf []byte) (*PacSignatureData, error) {
	c := newCursor(buf)
	sigType, err := c.u32()
	if err != nil {
		return nil, err
	}
	sigLen, err := signatureLength(sigType)
	if err != nil {
		return nil, err
	}
	sig, err := c.bytes(sigLen)
	if err != nil {
		return nil, err
	}
	result := &PacSignatureData{SignatureType: sigType, Signature: append([]byte(nil), sig...)}
	if c.pos != len(buf) {
		rodc, err := c.u16()
		if err != nil {
			return nil, err
		}
		result.RODCIdentifier = &rodc
	}
	return result, nil
}
