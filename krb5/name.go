package krb5

import (
	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// Realm names an Active Directory domain. It is ASCII (GeneralString) on
// the wire.
type Realm = string

// KerberosTime has no named type here: ticket and reply timestamps are
// held as int64 Unix seconds and converted with unixTime when encoded,
// while PAEncTsEnc.PaTimestamp is a time.Time, the type package asn1
// already speaks.

// PrincipalName is SEQUENCE { name-type[0] INTEGER, name-string[1]
// SEQUENCE OF GeneralString }.
type PrincipalName struct {
	NameType PrincipalNameType
	Labels   []string
}

// NewPrincipalName builds a PrincipalName from a type and its labels.
func NewPrincipalName(nameType PrincipalNameType, labels ...string) PrincipalName {
	return PrincipalName{NameType: nameType, Labels: labels}
}

// Marshal encodes the PrincipalName as a SEQUENCE TLV.
func (p PrincipalName) Marshal() ([]byte, error) {
	labelTLVs := make([][]byte, 0, len(p.Labels))
	for _, l := range p.Labels {
		tlv, err := asn1.WriteGeneralString(l)
		if err != nil {
			return nil, err
		}
		labelTLVs = append(labelTLVs, tlv)
	}
	nameString := asn1.WriteTagged(1, asn1.WriteSequenceOf(labelTLVs...))
	nameType := tagInt(0, uint32(p.NameType))
	return asn1.WriteSequence(nameType, nameString), nil
}

// Unmarshal parses data (a complete SEQUENCE TLV, as returned by
// wantTagged/TryTagged for this field) into p.
func (p *PrincipalName) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "PrincipalName is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)

	nameType, err := readInt(sr, 0)
	if err != nil {
		return err
	}
	p.NameType = PrincipalNameType(nameType)

	labelsContent, err := wantTagged(sr, 1)
	if err != nil {
		return err
	}
	seqNode, err := nodeContentOf(labelsContent)
	if err != nil {
		return err
	}
	if seqNode.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "name-string is not a SEQUENCE OF")
	}
	elems := asn1.NewSequenceReader(seqNode.Content)
	p.Labels = nil
	for !elems.Done() {
		node, err := elems.Next()
		if err != nil {
			return err
		}
		s, err := asn1.ReadGeneralString(node.Content)
		if err != nil {
			return err
		}
		p.Labels = append(p.Labels, s)
	}
	return nil
}

// String joins the name's labels with "/", the conventional Kerberos
// principal display form (e.g. "krbtgt/CONTOSO.COM").
func (p PrincipalName) String() string {
	s := ""
	for i, l := range p.Labels {
		if i > 0 {
			s += "/"
		}
		s += l
	}
	return s
}

// HostAddress is SEQUENCE { addr-type[0] INTEGER, address[1] OCTET STRING }.
type HostAddress struct {
	AddrType uint32
	Address  []byte
}

func (h HostAddress) Marshal() []byte {
	return asn1.WriteSequence(
		tagInt(0, h.AddrType),
		tagBytes(1, h.Address),
	)
}

func (h *HostAddress) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "HostAddress is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)
	h.AddrType, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	h.Address, err = readBytes(sr, 1)
	return err
}

// AuthorizationDataElement is SEQUENCE { ad-type[0] INTEGER, ad-data[1]
// OCTET STRING }.
type AuthorizationDataElement struct {
	ADType uint32
	ADData []byte
}

func (e AuthorizationDataElement) Marshal() []byte {
	return asn1.WriteSequence(
		tagInt(0, e.ADType),
		tagBytes(1, e.ADData),
	)
}

func (e *AuthorizationDataElement) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "AuthorizationDataElement is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)
	e.ADType, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	e.ADData, err = readBytes(sr, 1)
	return err
}

// AuthorizationData is SEQUENCE OF AuthorizationDataElement.
type AuthorizationData []AuthorizationDataElement

func (ad AuthorizationData) marshalSequence() []byte {
	elems := make([][]byte, len(ad))
	for i, e := range ad {
		elems[i] = e.Marshal()
	}
	return asn1.WriteSequenceOf(elems...)
}

func unmarshalAuthorizationData(content []byte) (AuthorizationData, error) {
	sr := asn1.NewSequenceReader(content)
	var ad AuthorizationData
	for !sr.Done() {
		node, err := sr.Next()
		if err != nil {
			return nil, err
		}
		if node.Tag != asn1.TagSequence {
			return nil, kerrors.New(kerrors.InvalidConst, "AuthorizationData element is not a SEQUENCE")
		}
		elemSr := asn1.NewSequenceReader(node.Content)
		adType, err := readInt(elemSr, 0)
		if err != nil {
			return nil, err
		}
		adData, err := readBytes(elemSr, 1)
		if err != nil {
			return nil, err
		}
		ad = append(ad, AuthorizationDataElement{ADType: adType, ADData: adData})
	}
	return ad, nil
}

// LastReqEntry is SEQUENCE { lr-type[0] INTEGER, lr-value[1] KerberosTime }.
type LastReqEntry struct {
	Type  uint32
	Value int64 // Unix seconds; KerberosTime on the wire
}

func (l LastReqEntry) Marshal() []byte {
	return asn1.WriteSequence(
		tagInt(0, l.Type),
		tagTime(1, unixTime(l.Value)),
	)
}

func (l *LastReqEntry) unmarshalNode(node asn1.Node) error {
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "LastReq entry is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)
	var err error
	l.Type, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	t, err := readTime(sr, 1)
	if err != nil {
		return err
	}
	l.Value = t.Unix()
	return nil
}

// LastReq is SEQUENCE OF LastReqEntry.
type LastReq []LastReqEntry

func (lr LastReq) marshalSequence() []byte {
	elems := make([][]byte, len(lr))
	for i, e := range lr {
		elems[i] = e.Marshal()
	}
	return asn1.WriteSequenceOf(elems...)
}

func unmarshalLastReq(content []byte) (LastReq, error) {
	sr := asn1.NewSequenceReader(content)
	var lr LastReq
	for !sr.Done() {
		node, err := sr.Next()
		if err != nil {
			return nil, err
		}
		var e LastReqEntry
		if err := e.unmarshalNode(node); err != nil {
			return nil, err
		}
		lr = append(lr, e)
	}
	return lr, nil
}
