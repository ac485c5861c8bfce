package krb5

import (
	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// KdcRep is KDC-REP (RFC 4120 §5.4.2), the body shared by AS-REP and TGS-REP.
type KdcRep struct {
	PVNO    uint32
	MsgType MessageType
	PAData  []PAData
	CRealm  Realm
	CName   PrincipalName
	Ticket  Ticket
	EncPart EncryptedData
}

func (r KdcRep) marshalFields() [][]byte {
	fields := [][]byte{
		tagInt(0, r.PVNO),
		tagInt(1, uint32(r.MsgType)),
	}
	if len(r.PAData) > 0 {
		padata := make([][]byte, len(r.PAData))
		for i, p := range r.PAData {
			padata[i] = p.Marshal()
		}
		fields = append(fields, asn1.WriteTagged(2, asn1.WriteSequenceOf(padata...)))
	}
	crealm, _ := asn1.WriteGeneralString(r.CRealm)
	fields = append(fields, asn1.WriteTagged(3, crealm))
	cname, _ := r.CName.Marshal()
	fields = append(fields, asn1.WriteTagged(4, cname))
	fields = append(fields, asn1.WriteTagged(5, r.Ticket.Marshal()))
	fields = append(fields, asn1.WriteTagged(6, r.EncPart.Marshal()))
	return fields
}

func (r *KdcRep) unmarshalFields(content []byte) error {
	sr := asn1.NewSequenceReader(content)
	var err error

	r.PVNO, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	msgType, err := readInt(sr, 1)
	if err != nil {
		return err
	}
	r.MsgType = MessageType(msgType)

	if padataContent, ok, err := sr.TryTagged(2); err != nil {
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

	r.CRealm, err = readStr(sr, 3)
	if err != nil {
		return err
	}
	cnameTLV, err := wantTagged(sr, 4)
	if err != nil {
		return err
	}
	if err := r.CName.Unmarshal(cnameTLV); err != nil {
		return err
	}
	tktTLV, err := wantTagged(sr, 5)
	if err != nil {
		return err
	}
	if err := r.Ticket.Unmarshal(tktTLV); err != nil {
		return err
	}
	encTLV, err := wantTagged(sr, 6)
	if err != nil {
		return err
	}
	return r.EncPart.Unmarshal(encTLV)
}

// AsRep is [APPLICATION 11] KDC-REP.
type AsRep struct {
	Inner KdcRep
}

func (r AsRep) Marshal() []byte {
	return wrapApplication(AppTagASRep, asn1.WriteSequence(r.Inner.marshalFields()...))
}

func (r *AsRep) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagASRep)
	if err != nil {
		return err
	}
	return r.Inner.unmarshalFields(content)
}

// Decrypt derives the RC4-HMAC key from password and decrypts enc-part.
func (r AsRep) Decrypt(password string) (EncASRepPart, error) {
	return r.DecryptWithKey(NewEncryptionKeyRC4HMAC(password))
}

// DecryptWithKey decrypts enc-part with an already-derived key (pass-the-
// hash or an AS-REQ session key recovered some other way).
func (r AsRep) DecryptWithKey(key EncryptionKey) (EncASRepPart, error) {
	plaintext, err := key.Decrypt(crypto.KeyUsageASRepEncPart, r.Inner.EncPart)
	if err != nil {
		return EncASRepPart{}, err
	}
	var part EncASRepPart
	if err := part.Unmarshal(plaintext); err != nil {
		return EncASRepPart{}, err
	}
	return part, nil
}

// TgsRep is [APPLICATION 13] KDC-REP.
type TgsRep struct {
	Inner KdcRep
}

func (r TgsRep) Marshal() []byte {
	return wrapApplication(AppTagTGSRep, asn1.WriteSequence(r.Inner.marshalFields()...))
}

func (r *TgsRep) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagTGSRep)
	if err != nil {
		return err
	}
	return r.Inner.unmarshalFields(content)
}

// Decrypt decrypts enc-part under the session key obtained from the prior
// AS exchange.
func (r TgsRep) Decrypt(sessionKey EncryptionKey) (EncTGSRepPart, error) {
	plaintext, err := sessionKey.Decrypt(crypto.KeyUsageTGSRepEncPart, r.Inner.EncPart)
	if err != nil {
		return EncTGSRepPart{}, err
	}
	var part EncTGSRepPart
	if err := part.Unmarshal(plaintext); err != nil {
		return EncTGSRepPart{}, err
	}
	return part, nil
}

// EncKDCRepPart is EncKDCRepPart (RFC 4120 §5.4.2), the plaintext enc-part
// of both AS-REP and TGS-REP.
type EncKDCRepPart struct {
	Key           EncryptionKey
	LastReq       LastReq
	Nonce         uint32
	KeyExpiration *int64
	Flags         []byte
	AuthTime      int64
	StartTime     *int64
	EndTime       int64
	RenewTill     *int64
	SRealm        Realm
	SName         PrincipalName
	CAddr         []HostAddress
}

func (e EncKDCRepPart) marshal() []byte {
	key := e.Key.Marshal()
	sname, _ := e.SName.Marshal()
	srealm, _ := asn1.WriteGeneralString(e.SRealm)

	fields := [][]byte{
		asn1.WriteTagged(0, key),
		asn1.WriteTagged(1, e.LastReq.marshalSequence()),
		tagInt(2, e.Nonce),
	}
	if e.KeyExpiration != nil {
		fields = append(fields, tagTime(3, unixTime(*e.KeyExpiration)))
	}
	fields = append(fields,
		tagBits(4, e.Flags),
		tagTime(5, unixTime(e.AuthTime)),
	)
	if e.StartTime != nil {
		fields = append(fields, tagTime(6, unixTime(*e.StartTime)))
	}
	fields = append(fields, tagTime(7, unixTime(e.EndTime)))
	if e.RenewTill != nil {
		fields = append(fields, tagTime(8, unixTime(*e.RenewTill)))
	}
	fields = append(fields,
		asn1.WriteTagged(9, srealm),
		asn1.WriteTagged(10, sname),
	)
	if len(e.CAddr) > 0 {
		addrs := make([][]byte, len(e.CAddr))
		for i, a := range e.CAddr {
			addrs[i] = a.Marshal()
		}
		fields = append(fields, asn1.WriteTagged(11, asn1.WriteSequenceOf(addrs...)))
	}
	return asn1.WriteSequence(fields...)
}

func (e *EncKDCRepPart) unmarshal(content []byte) error {
	sr := asn1.NewSequenceReader(content)

	keyTLV, err := wantTagged(sr, 0)
	if err != nil {
		return err
	}
	if err := e.Key.Unmarshal(keyTLV); err != nil {
		return err
	}

	lastReqTLV, err := wantTagged(sr, 1)
	if err != nil {
		return err
	}
	lastReqNode, err := nodeContentOf(lastReqTLV)
	if err != nil {
		return err
	}
	if lastReqNode.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "last-req is not a SEQUENCE OF")
	}
	e.LastReq, err = unmarshalLastReq(lastReqNode.Content)
	if err != nil {
		return err
	}

	e.Nonce, err = readInt(sr, 2)
	if err != nil {
		return err
	}
	if exp, ok, err := tryTime(sr, 3); err != nil {
		return err
	} else if ok {
		v := exp.Unix()
		e.KeyExpiration = &v
	}
	e.Flags, err = readBits(sr, 4)
	if err != nil {
		return err
	}
	authtime, err := readTime(sr, 5)
	if err != nil {
		return err
	}
	e.AuthTime = authtime.Unix()
	if st, ok, err := tryTime(sr, 6); err != nil {
		return err
	} else if ok {
		v := st.Unix()
		e.StartTime = &v
	}
	endtime, err := readTime(sr, 7)
	if err != nil {
		return err
	}
	e.EndTime = endtime.Unix()
	if rt, ok, err := tryTime(sr, 8); err != nil {
		return err
	} else if ok {
		v := rt.Unix()
		e.RenewTill = &v
	}
	e.SRealm, err = readStr(sr, 9)
	if err != nil {
		return err
	}
	snameTLV, err := wantTagged(sr, 10)
	if err != nil {
		return err
	}
	if err := e.SName.Unmarshal(snameTLV); err != nil {
		return err
	}
	if caddrContent, ok, err := sr.TryTagged(11); err != nil {
		return err
	} else if ok {
		node, err := nodeContentOf(caddrContent)
		if err != nil {
			return err
		}
		elems := asn1.NewSequenceReader(node.Content)
		for !elems.Done() {
			n, err := elems.Next()
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
			e.CAddr = append(e.CAddr, a)
		}
	}
	return nil
}

// EncASRepPart is [APPLICATION 25] EncKDCRepPart.
type EncASRepPart struct {
	Inner EncKDCRepPart
}

func (e EncASRepPart) Marshal() []byte {
	return wrapApplication(AppTagEncASRepPart, e.Inner.marshal())
}

func (e *EncASRepPart) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagEncASRepPart)
	if err != nil {
		return err
	}
	return e.Inner.unmarshal(content)
}

// EncTGSRepPart is [APPLICATION 26] EncKDCRepPart.
type EncTGSRepPart struct {
	Inner EncKDCRepPart
}

func (e EncTGSRepPart) Marshal() []byte {
	return wrapApplication(AppTagEncTGSRepPart, e.Inner.marshal())
}

func (e *EncTGSRepPart) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagEncTGSRepPart)
	if err != nil {
		return err
	}
	return e.Inner.unmarshal(content)
}
