package krb5

import (
	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// Checksum is SEQUENCE { cksumtype[0] INTEGER, checksum[1] OCTET STRING }.
type Checksum struct {
	CksumType int32
	Sum       []byte
}

// NewChecksum builds a Checksum value; cksumtype is signed since
// ChecksumKerbHMACMD5 is negative (a Microsoft extension range).
func NewChecksum(cksumtype int32, sum []byte) Checksum {
	return Checksum{CksumType: cksumtype, Sum: sum}
}

func (c Checksum) Marshal() []byte {
	return asn1.WriteSequence(
		tagSInt(0, c.CksumType),
		tagBytes(1, c.Sum),
	)
}

func (c *Checksum) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "Checksum is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)

	c.CksumType, err = readSInt(sr, 0)
	if err != nil {
		return err
	}
	c.Sum, err = readBytes(sr, 1)
	return err
}
