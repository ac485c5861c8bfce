package krb5

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"time"

	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// nonce draws a fresh KDC-REQ-BODY nonce. RFC 4120 only requires it be
// unpredictable enough to bind a reply to its request; 31 bits keeps it a
// positive ASN.1 INTEGER.
func nonce() uint32 {
	var b [4]byte
	_, _ = cryptorand.Read(b[:])
	return binary.BigEndian.Uint32(b[:]) & 0x7fffffff
}

// KdcReqBody is KDC-REQ-BODY (RFC 4120 §5.4.2).
type KdcReqBody struct {
	KDCOptions           []byte
	CName                *PrincipalName
	Realm                Realm
	SName                *PrincipalName
	From                 *int64
	Till                 int64
	RTime                *int64
	Nonce                uint32
	EType                []EType
	Addresses            []HostAddress
	EncAuthorizationData *EncryptedData
	AdditionalTickets    []Ticket
}

// newKdcReqBody builds the common body both AS-REQ and TGS-REQ share: a
// one-day ticket lifetime, RC4-HMAC as the sole offered etype, and a fresh
// nonce.
func newKdcReqBody(cname, sname PrincipalName, realm Realm, options []KDCOption) KdcReqBody {
	till := time.Now().Add(24 * time.Hour).Unix()
	return KdcReqBody{
		KDCOptions: JoinOptions(options...),
		CName:      &cname,
		Realm:      realm,
		SName:      &sname,
		Till:       till,
		Nonce:      nonce(),
		EType:      []EType{ETypeRc4Hmac},
	}
}

func (b KdcReqBody) Marshal() []byte {
	fields := [][]byte{tagBits(0, b.KDCOptions)}
	if b.CName != nil {
		cname, _ := b.CName.Marshal()
		fields = append(fields, asn1.WriteTagged(1, cname))
	}
	realm, _ := asn1.WriteGeneralString(b.Realm)
	fields = append(fields, asn1.WriteTagged(2, realm))
	if b.SName != nil {
		sname, _ := b.SName.Marshal()
		fields = append(fields, asn1.WriteTagged(3, sname))
	}
	if b.From != nil {
		fields = append(fields, tagTime(4, unixTime(*b.From)))
	}
	fields = append(fields, tagTime(5, unixTime(b.Till)))
	if b.RTime != nil {
		fields = append(fields, tagTime(6, unixTime(*b.RTime)))
	}
	fields = append(fields, tagInt(7, b.Nonce))
	etypes := make([][]byte, len(b.EType))
	for i, e := range b.EType {
		etypes[i] = asn1.WriteSInteger(int32(e))
	}
	fields = append(fields, asn1.WriteTagged(8, asn1.WriteSequenceOf(etypes...)))
	if len(b.Addresses) > 0 {
		addrs := make([][]byte, len(b.Addresses))
		for i, a := range b.Addresses {
			addrs[i] = a.Marshal()
		}
		fields = append(fields, asn1.WriteTagged(9, asn1.WriteSequenceOf(addrs...)))
	}
	if b.EncAuthorizationData != nil {
		fields = append(fields, asn1.WriteTagged(10, b.EncAuthorizationData.Marshal()))
	}
	if len(b.AdditionalTickets) > 0 {
		tkts := make([][]byte, len(b.AdditionalTickets))
		for i, t := range b.AdditionalTickets {
			tkts[i] = t.Marshal()
		}
		fields = append(fields, asn1.WriteTagged(11, asn1.WriteSequenceOf(tkts...)))
	}
	return asn1.WriteSequence(fields...)
}

func (b *KdcReqBody) Unmarshal(content []byte) error {
	sr := asn1.NewSequenceReader(content)
	var err error

	b.KDCOptions, err = readBits(sr, 0)
	if err != nil {
		return err
	}
	if cnameTLV, ok, err := sr.TryTagged(1); err != nil {
		return err
	} else if ok {
		var c PrincipalName
		if err := c.Unmarshal(cnameTLV); err != nil {
			return err
		}
		b.CName = &c
	}
	b.Realm, err = readStr(sr, 2)
	if err != nil {
		return err
	}
	if snameTLV, ok, err := sr.TryTagged(3); err != nil {
		return err
	} else if ok {
		var s PrincipalName
		if err := s.Unmarshal(snameTLV); err != nil {
			return err
		}
		b.SName = &s
	}
	if from, ok, err := tryTime(sr, 4); err != nil {
		return err
	} else if ok {
		v := from.Unix()
		b.From = &v
	}
	till, err := readTime(sr, 5)
	if err != nil {
		return err
	}
	b.Till = till.Unix()
	if rtime, ok, err := tryTime(sr, 6); err != nil {
		return err
	} else if ok {
		v := rtime.Unix()
		b.RTime = &v
	}
	b.Nonce, err = readInt(sr, 7)
	if err != nil {
		return err
	}
	etypeTLV, err := wantTagged(sr, 8)
	if err != nil {
		return err
	}
	etypeNode, err := nodeContentOf(etypeTLV)
	if err != nil {
		return err
	}
	if etypeNode.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "etype is not a SEQUENCE OF")
	}
	elems := asn1.NewSequenceReader(etypeNode.Content)
	b.EType = nil
	for !elems.Done() {
		n, err := elems.Next()
		if err != nil {
			return err
		}
		v, err := asn1.ReadSInteger(n.Content)
		if err != nil {
			return err
		}
		b.EType = append(b.EType, EType(v))
	}
	if addrContent, ok, err := sr.TryTagged(9); err != nil {
		return err
	} else if ok {
		node, err := nodeContentOf(addrContent)
		if err != nil {
			return err
		}
		addrs := asn1.NewSequenceReader(node.Content)
		for !addrs.Done() {
			n, err := addrs.Next()
			if err != nil {
				return err
			}
			asr := asn1.NewSequenceReader(n.Content)
			var a HostAddress
			if a.AddrType, err = readInt(asr, 0); err != nil {
				return err
			}
			if a.Address, err = readBytes(asr, 1); err != nil {
				return err
			}
			b.Addresses = append(b.Addresses, a)
		}
	}
	if eadContent, ok, err := sr.TryTagged(10); err != nil {
		return err
	} else if ok {
		var e EncryptedData
		if err := e.Unmarshal(eadContent); err != nil {
			return err
		}
		b.EncAuthorizationData = &e
	}
	if tktsContent, ok, err := sr.TryTagged(11); err != nil {
		return err
	} else if ok {
		node, err := nodeContentOf(tktsContent)
		if err != nil {
			return err
		}
		tkts := asn1.NewSequenceReader(node.Content)
		for !tkts.Done() {
			n, err := tkts.Next()
			if err != nil {
				return err
			}
			var t Ticket
			if err := t.Unmarshal(rawTLV(n)); err != nil {
				return err
			}
			b.AdditionalTickets = append(b.AdditionalTickets, t)
		}
	}
	return nil
}

// rawTLV re-serializes an already-parsed node back into a TLV, for the rare
// case (additional-tickets) where a SEQUENCE OF holds application-tagged
// elements that Unmarshal needs as a standalone buffer.
func rawTLV(n asn1.Node) []byte {
	if n.Class == asn1.ClassApplication {
		return asn1.WriteApplication(n.Tag, n.Content)
	}
	return asn1.WriteSequence(n.Content)
}

// KdcReq is KDC-REQ (RFC 4120 §5.4.1), the body shared by AS-REQ and TGS-REQ.
type KdcReq struct {
	PVNO    uint32
	MsgType MessageType
	PAData  []PAData
	ReqBody KdcReqBody
}

func (r KdcReq) marshalFields() [][]byte {
	fields := [][]byte{
		tagInt(1, r.PVNO),
		tagInt(2, uint32(r.MsgType)),
	}
	if len(r.PAData) > 0 {
		padata := make([][]byte, len(r.PAData))
		for i, p := range r.PAData {
			padata[i] = p.Marshal()
		}
		fields = append(fields, asn1.WriteTagged(3, asn1.WriteSequenceOf(padata...)))
	}
	fields = append(fields, asn1.WriteTagged(4, r.ReqBody.Marshal()))
	return fields
}

func (r *KdcReq) unmarshalFields(content []byte) error {
	sr := asn1.NewSequenceReader(content)
	var err error
	pvno, err := readInt(sr, 1)
	if err != nil {
		return err
	}
	r.PVNO = pvno
	msgType, err := readInt(sr, 2)
	if err != nil {
		return err
	}
	r.MsgType = MessageType(msgType)
	if padataContent, ok, err := sr.TryTagged(3); err != nil {
		return err
	} else if ok {
		node, err := nodeContentOf(padataContent)
		if err != nil {
			return err
		}
		elems := asn1.NewSequenceReader(node.Content)
		r.PAData = nil
		for !elems.Done() {
			n, err := elems.Next()
			if err != nil {
				return err
			}
			var p PAData
			if err := p.Unmarshal(asn1.WriteSequence(n.Content)); err != nil {
				return err
			}
			r.PAData = append(r.PAData, p)
		}
	}
	bodyTLV, err := wantTagged(sr, 4)
	if err != nil {
		return err
	}
	bodyNode, err := nodeContentOf(bodyTLV)
	if err != nil {
		return err
	}
	return r.ReqBody.Unmarshal(bodyNode.Content)
}

// AsReq is [APPLICATION 10] KDC-REQ.
type AsReq struct {
	Inner KdcReq
}

// NewASReq builds an AS-REQ for username@domain requesting a ticket-
// granting ticket, with the given kdc-options set.
func NewASReq(domain, username string, options ...KDCOption) (AsReq, error) {
	cname := NewPrincipalName(NameTypePrincipal, username)
	sname := NewPrincipalName(NameTypeSrvInst, "krbtgt", domain)
	return AsReq{
		Inner: KdcReq{
			PVNO:    ProtocolVersion,
			MsgType: MessageTypeASReq,
			ReqBody: newKdcReqBody(cname, sname, domain, options),
		},
	}, nil
}

// WithPreauth adds (or appends to) PA-ENC-TIMESTAMP pre-authentication
// under key.
func (r AsReq) WithPreauth(key EncryptionKey) (AsReq, error) {
	pa, err := NewPAEncTimestamp(key)
	if err != nil {
		return AsReq{}, err
	}
	r.Inner.PAData = append(r.Inner.PAData, pa)
	return r, nil
}

func (r AsReq) Marshal() []byte {
	return wrapApplication(AppTagASReq, asn1.WriteSequence(r.Inner.marshalFields()...))
}

func (r *AsReq) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagASReq)
	if err != nil {
		return err
	}
	return r.Inner.unmarshalFields(content)
}

// TgsReq is [APPLICATION 12] KDC-REQ.
type TgsReq struct {
	Inner KdcReq
}

// NewTGSReq builds a TGS-REQ for a service ticket to sname, authenticated
// by apReq (the client's own AP-REQ against the ticket-granting service).
func NewTGSReq(domain, username string, sname PrincipalName, apReq ApReq, options ...KDCOption) (TgsReq, error) {
	cname := NewPrincipalName(NameTypePrincipal, username)
	apReqBytes, err := apReq.Marshal()
	if err != nil {
		return TgsReq{}, err
	}
	return TgsReq{
		Inner: KdcReq{
			PVNO:    ProtocolVersion,
			MsgType: MessageTypeTGSReq,
			PAData: []PAData{
				{Type: PaTGSReq, Value: apReqBytes},
			},
			ReqBody: newKdcReqBody(cname, sname, domain, options),
		},
	}, nil
}

// ForUser adds a PA-FOR-USER entry impersonating userName (S4U2Self).
func (r TgsReq) ForUser(userName PrincipalName, userRealm Realm, key EncryptionKey) (TgsReq, error) {
	pa, err := NewPAForUser(userName, userRealm, key)
	if err != nil {
		return TgsReq{}, err
	}
	r.Inner.PAData = append(r.Inner.PAData, pa)
	return r, nil
}

func (r TgsReq) Marshal() []byte {
	return wrapApplication(AppTagTGSReq, asn1.WriteSequence(r.Inner.marshalFields()...))
}

func (r *TgsReq) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagTGSReq)
	if err != nil {
		return err
	}
	return r.Inner.unmarshalFields(content)
}
