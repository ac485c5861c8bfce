package krb5

import (
	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// KrbCredInfo is SEQUENCE { key[0] EncryptionKey, prealm[1] Realm OPTIONAL,
// pname[2] PrincipalName OPTIONAL, flags[3] TicketFlags OPTIONAL,
// authtime[4] KerberosTime OPTIONAL, starttime[5] KerberosTime OPTIONAL,
// endtime[6] KerberosTime OPTIONAL, renew-till[7] KerberosTime OPTIONAL,
// srealm[8] Realm OPTIONAL, sname[9] PrincipalName OPTIONAL, caddr[10]
// HostAddresses OPTIONAL }.
type KrbCredInfo struct {
	Key       EncryptionKey
	PRealm    *Realm
	PName     *PrincipalName
	Flags     []byte
	AuthTime  *int64
	StartTime *int64
	EndTime   *int64
	RenewTill *int64
	SRealm    *Realm
	SName     *PrincipalName
	CAddr     []HostAddress
}

// newKrbCredInfo carries an AS/TGS reply's session key and ticket times
// into the SEQUENCE a KRB-CRED ships the receiving host.
func newKrbCredInfo(name PrincipalName, dec EncKDCRepPart) KrbCredInfo {
	srealm := dec.SRealm
	authtime := dec.AuthTime
	endtime := dec.EndTime
	return KrbCredInfo{
		Key:       dec.Key,
		PRealm:    &srealm,
		PName:     &name,
		AuthTime:  &authtime,
		StartTime: dec.StartTime,
		EndTime:   &endtime,
		RenewTill: dec.RenewTill,
		SRealm:    &srealm,
		SName:     &dec.SName,
	}
}

func (c KrbCredInfo) marshal() []byte {
	fields := [][]byte{asn1.WriteTagged(0, c.Key.Marshal())}
	if c.PRealm != nil {
		v, _ := asn1.WriteGeneralString(*c.PRealm)
		fields = append(fields, asn1.WriteTagged(1, v))
	}
	if c.PName != nil {
		v, _ := c.PName.Marshal()
		fields = append(fields, asn1.WriteTagged(2, v))
	}
	if c.Flags != nil {
		fields = append(fields, tagBits(3, c.Flags))
	}
	if c.AuthTime != nil {
		fields = append(fields, tagTime(4, unixTime(*c.AuthTime)))
	}
	if c.StartTime != nil {
		fields = append(fields, tagTime(5, unixTime(*c.StartTime)))
	}
	if c.EndTime != nil {
		fields = append(fields, tagTime(6, unixTime(*c.EndTime)))
	}
	if c.RenewTill != nil {
		fields = append(fields, tagTime(7, unixTime(*c.RenewTill)))
	}
	if c.SRealm != nil {
		v, _ := asn1.WriteGeneralString(*c.SRealm)
		fields = append(fields, asn1.WriteTagged(8, v))
	}
	if c.SName != nil {
		v, _ := c.SName.Marshal()
		fields = append(fields, asn1.WriteTagged(9, v))
	}
	if len(c.CAddr) > 0 {
		addrs := make([][]byte, len(c.CAddr))
		for i, a := range c.CAddr {
			addrs[i] = a.Marshal()
		}
		fields = append(fields, asn1.WriteTagged(10, asn1.WriteSequenceOf(addrs...)))
	}
	return asn1.WriteSequence(fields...)
}

func (c *KrbCredInfo) unmarshalNode(content []byte) error {
	sr := asn1.NewSequenceReader(content)

	keyTLV, err := wantTagged(sr, 0)
	if err != nil {
		return err
	}
	if err := c.Key.Unmarshal(keyTLV); err != nil {
		return err
	}
	if prealm, ok, err := tryStr(sr, 1); err != nil {
		return err
	} else if ok {
		c.PRealm = &prealm
	}
	if pnameTLV, ok, err := sr.TryTagged(2); err != nil {
		return err
	} else if ok {
		var p PrincipalName
		if err := p.Unmarshal(pnameTLV); err != nil {
			return err
		}
		c.PName = &p
	}
	if flags, ok, err := tryBits(sr, 3); err != nil {
		return err
	} else if ok {
		c.Flags = flags
	}
	if authtime, ok, err := tryTime(sr, 4); err != nil {
		return err
	} else if ok {
		v := authtime.Unix()
		c.AuthTime = &v
	}
	if starttime, ok, err := tryTime(sr, 5); err != nil {
		return err
	} else if ok {
		v := starttime.Unix()
		c.StartTime = &v
	}
	if endtime, ok, err := tryTime(sr, 6); err != nil {
		return err
	} else if ok {
		v := endtime.Unix()
		c.EndTime = &v
	}
	if renewtill, ok, err := tryTime(sr, 7); err != nil {
		return err
	} else if ok {
		v := renewtill.Unix()
		c.RenewTill = &v
	}
	if srealm, ok, err := tryStr(sr, 8); err != nil {
		return err
	} else if ok {
		c.SRealm = &srealm
	}
	if snameTLV, ok, err := sr.TryTagged(9); err != nil {
		return err
	} else if ok {
		var s PrincipalName
		if err := s.Unmarshal(snameTLV); err != nil {
			return err
		}
		c.SName = &s
	}
	if addrContent, ok, err := sr.TryTagged(10); err != nil {
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
			c.CAddr = append(c.CAddr, a)
		}
	}
	return nil
}

// EncKrbCredPartBody is SEQUENCE { ticket-info[0] SEQUENCE OF KrbCredInfo,
// nonce[1] INTEGER OPTIONAL, timestamp[2] KerberosTime OPTIONAL, usec[3]
// INTEGER OPTIONAL, s-address[4] HostAddress OPTIONAL, r-address[5]
// HostAddress OPTIONAL }.
type EncKrbCredPartBody struct {
	TicketInfo []KrbCredInfo
	Nonce      *uint32
	Timestamp  *int64
	USec       *uint32
	SAddress   *HostAddress
	RAddress   *HostAddress
}

func (b EncKrbCredPartBody) marshal() []byte {
	infos := make([][]byte, len(b.TicketInfo))
	for i, t := range b.TicketInfo {
		infos[i] = t.marshal()
	}
	fields := [][]byte{asn1.WriteTagged(0, asn1.WriteSequenceOf(infos...))}
	if b.Nonce != nil {
		fields = append(fields, tagInt(1, *b.Nonce))
	}
	if b.Timestamp != nil {
		fields = append(fields, tagTime(2, unixTime(*b.Timestamp)))
	}
	if b.USec != nil {
		fields = append(fields, tagInt(3, *b.USec))
	}
	if b.SAddress != nil {
		fields = append(fields, asn1.WriteTagged(4, b.SAddress.Marshal()))
	}
	if b.RAddress != nil {
		fields = append(fields, asn1.WriteTagged(5, b.RAddress.Marshal()))
	}
	return asn1.WriteSequence(fields...)
}

func (b *EncKrbCredPartBody) unmarshal(content []byte) error {
	sr := asn1.NewSequenceReader(content)

	infoTLV, err := wantTagged(sr, 0)
	if err != nil {
		return err
	}
	infoNode, err := nodeContentOf(infoTLV)
	if err != nil {
		return err
	}
	if infoNode.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "ticket-info is not a SEQUENCE OF")
	}
	elems := asn1.NewSequenceReader(infoNode.Content)
	for !elems.Done() {
		n, err := elems.Next()
		if err != nil {
			return err
		}
		var info KrbCredInfo
		if err := info.unmarshalNode(n.Content); err != nil {
			return err
		}
		b.TicketInfo = append(b.TicketInfo, info)
	}

	if nonce, ok, err := tryInt(sr, 1); err != nil {
		return err
	} else if ok {
		b.Nonce = &nonce
	}
	if timestamp, ok, err := tryTime(sr, 2); err != nil {
		return err
	} else if ok {
		v := timestamp.Unix()
		b.Timestamp = &v
	}
	if usec, ok, err := tryInt(sr, 3); err != nil {
		return err
	} else if ok {
		b.USec = &usec
	}
	if saddrTLV, ok, err := sr.TryTagged(4); err != nil {
		return err
	} else if ok {
		var a HostAddress
		if err := a.Unmarshal(saddrTLV); err != nil {
			return err
		}
		b.SAddress = &a
	}
	if raddrTLV, ok, err := sr.TryTagged(5); err != nil {
		return err
	} else if ok {
		var a HostAddress
		if err := a.Unmarshal(raddrTLV); err != nil {
			return err
		}
		b.RAddress = &a
	}
	return nil
}

// EncKrbCredPart is [APPLICATION 29] EncKrbCredPartBody, the plaintext
// enc-part a KRB-CRED's envelope carries.
type EncKrbCredPart struct {
	Inner EncKrbCredPartBody
}

func (e EncKrbCredPart) Marshal() []byte {
	return wrapApplication(AppTagEncKrbCredPart, e.Inner.marshal())
}

func (e *EncKrbCredPart) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagEncKrbCredPart)
	if err != nil {
		return err
	}
	return e.Inner.unmarshal(content)
}

// KrbCredBody is SEQUENCE { pvno[0] INTEGER, msg-type[1] INTEGER,
// tickets[2] SEQUENCE OF Ticket, enc-part[3] EncryptedData }.
type KrbCredBody struct {
	PVNO    uint32
	MsgType MessageType
	Tickets []Ticket
	EncPart EncryptedData
}

func (b KrbCredBody) marshal() []byte {
	tkts := make([][]byte, len(b.Tickets))
	for i, t := range b.Tickets {
		tkts[i] = t.Marshal()
	}
	return asn1.WriteSequence(
		tagInt(0, b.PVNO),
		tagInt(1, uint32(b.MsgType)),
		asn1.WriteTagged(2, asn1.WriteSequenceOf(tkts...)),
		asn1.WriteTagged(3, b.EncPart.Marshal()),
	)
}

func (b *KrbCredBody) unmarshal(content []byte) error {
	sr := asn1.NewSequenceReader(content)

	pvno, err := readInt(sr, 0)
	if err != nil {
		return err
	}
	b.PVNO = pvno
	msgType, err := readInt(sr, 1)
	if err != nil {
		return err
	}
	b.MsgType = MessageType(msgType)

	tktsTLV, err := wantTagged(sr, 2)
	if err != nil {
		return err
	}
	tktsNode, err := nodeContentOf(tktsTLV)
	if err != nil {
		return err
	}
	if tktsNode.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "tickets is not a SEQUENCE OF")
	}
	elems := asn1.NewSequenceReader(tktsNode.Content)
	for !elems.Done() {
		n, err := elems.Next()
		if err != nil {
			return err
		}
		var t Ticket
		if err := t.Unmarshal(rawTLV(n)); err != nil {
			return err
		}
		b.Tickets = append(b.Tickets, t)
	}

	encTLV, err := wantTagged(sr, 3)
	if err != nil {
		return err
	}
	return b.EncPart.Unmarshal(encTLV)
}

// KrbCred is [APPLICATION 22] KrbCredBody, used to forward a ticket and its
// session key to another host (ticket delegation) without re-contacting
// the KDC.
type KrbCred struct {
	Inner KrbCredBody
}

// NewKrbCred bundles ticket and the session key/metadata from the AS or
// TGS reply that issued it (encPart) into a KRB-CRED addressed to name,
// wrapped in a null-encryption envelope the way a same-host credential
// cache transfer does.
func NewKrbCred(name PrincipalName, ticket Ticket, encPart EncKDCRepPart) (KrbCred, error) {
	noKey := NewEncryptionKeyNoEncryption()
	inner := EncKrbCredPart{Inner: EncKrbCredPartBody{
		TicketInfo: []KrbCredInfo{newKrbCredInfo(name, encPart)},
	}}
	enc, err := noKey.Encrypt(crypto.KeyUsageASRepEncPart, inner.Marshal())
	if err != nil {
		return KrbCred{}, err
	}
	return KrbCred{Inner: KrbCredBody{
		PVNO:    ProtocolVersion,
		MsgType: MessageTypeCred,
		Tickets: []Ticket{ticket},
		EncPart: enc,
	}}, nil
}

func (c KrbCred) Marshal() []byte {
	return wrapApplication(AppTagCred, c.Inner.marshal())
}

func (c *KrbCred) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagCred)
	if err != nil {
		return err
	}
	return c.Inner.unmarshal(content)
}
