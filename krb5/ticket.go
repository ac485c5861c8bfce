package krb5

import (
	"fmt"

	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// Ticket is [APPLICATION 1] SEQUENCE { tkt-vno[0] INTEGER (5), realm[1]
// Realm, sname[2] PrincipalName, enc-part[3] EncryptedData }.
type Ticket struct {
	TktVNO  uint32
	Realm   Realm
	SName   PrincipalName
	EncPart EncryptedData
}

func (t Ticket) Marshal() []byte {
	sname, _ := t.SName.Marshal()
	realm, _ := asn1.WriteGeneralString(t.Realm)
	seq := asn1.WriteSequence(
		tagInt(0, t.TktVNO),
		asn1.WriteTagged(1, realm),
		asn1.WriteTagged(2, sname),
		asn1.WriteTagged(3, t.EncPart.Marshal()),
	)
	return wrapApplication(AppTagTicket, seq)
}

func (t *Ticket) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagTicket)
	if err != nil {
		return err
	}
	sr := asn1.NewSequenceReader(content)

	t.TktVNO, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	t.Realm, err = readStr(sr, 1)
	if err != nil {
		return err
	}
	snameTLV, err := wantTagged(sr, 2)
	if err != nil {
		return err
	}
	if err := t.SName.Unmarshal(snameTLV); err != nil {
		return err
	}
	encTLV, err := wantTagged(sr, 3)
	if err != nil {
		return err
	}
	return t.EncPart.Unmarshal(encTLV)
}

// String renders a human-readable principal@realm identity for logging.
func (t Ticket) String() string {
	return fmt.Sprintf("%s@%s", t.SName, t.Realm)
}

// TransitedEncoding is SEQUENCE { tr-type[0] INTEGER, contents[1] OCTET
// STRING }.
type TransitedEncoding struct {
	TRType   uint32
	Contents []byte
}

func (t TransitedEncoding) Marshal() []byte {
	return asn1.WriteSequence(
		tagInt(0, t.TRType),
		tagBytes(1, t.Contents),
	)
}

func (t *TransitedEncoding) Unmarshal(content []byte) error {
	sr := asn1.NewSequenceReader(content)
	var err error
	t.TRType, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	t.Contents, err = readBytes(sr, 1)
	return err
}

// EncTicketPart is [APPLICATION 3] SEQUENCE { flags[0] TicketFlags, key[1]
// EncryptionKey, crealm[2] Realm, cname[3] PrincipalName, transited[4]
// TransitedEncoding, authtime[5] KerberosTime, starttime[6] KerberosTime
// OPTIONAL, endtime[7] KerberosTime, renew-till[8] KerberosTime OPTIONAL,
// caddr[9] HostAddresses OPTIONAL, authorization-data[10] AuthorizationData
// OPTIONAL }.
type EncTicketPart struct {
	Flags             []byte // 32-bit BIT STRING, read with HasOption
	Key               EncryptionKey
	CRealm            Realm
	CName             PrincipalName
	Transited         TransitedEncoding
	AuthTime          int64
	StartTime         *int64
	EndTime           int64
	RenewTill         *int64
	CAddr             []HostAddress
	AuthorizationData AuthorizationData
}

// String renders "cname@crealm [flags]" with flags shown as the named
// TicketFlags bits that are set, for logging a decrypted ticket.
func (e EncTicketPart) String() string {
	flags := ""
	for _, f := range []struct {
		name string
		bit  KDCOption
	}{
		{"forwardable", OptForwardable},
		{"forwarded", OptForwarded},
		{"proxiable", OptProxiable},
		{"proxy", OptProxy},
		{"renewable", OptRenewable},
	} {
		if HasOption(e.Flags, f.bit) {
			if flags != "" {
				flags += ","
			}
			flags += f.name
		}
	}
	return fmt.Sprintf("%s@%s [%s]", e.CName, e.CRealm, flags)
}

func (e EncTicketPart) Marshal() []byte {
	key := e.Key.Marshal()
	crealm, _ := asn1.WriteGeneralString(e.CRealm)
	cname, _ := e.CName.Marshal()
	transited := e.Transited.Marshal()

	fields := [][]byte{
		tagBits(0, e.Flags),
		asn1.WriteTagged(1, key),
		asn1.WriteTagged(2, crealm),
		asn1.WriteTagged(3, cname),
		asn1.WriteTagged(4, transited),
		tagTime(5, unixTime(e.AuthTime)),
	}
	if e.StartTime != nil {
		fields = append(fields, tagTime(6, unixTime(*e.StartTime)))
	}
	fields = append(fields, tagTime(7, unixTime(e.EndTime)))
	if e.RenewTill != nil {
		fields = append(fields, tagTime(8, unixTime(*e.RenewTill)))
	}
	if len(e.CAddr) > 0 {
		addrs := make([][]byte, len(e.CAddr))
		for i, a := range e.CAddr {
			addrs[i] = a.Marshal()
		}
		fields = append(fields, asn1.WriteTagged(9, asn1.WriteSequenceOf(addrs...)))
	}
	if len(e.AuthorizationData) > 0 {
		fields = append(fields, asn1.WriteTagged(10, e.AuthorizationData.marshalSequence()))
	}
	seq := asn1.WriteSequence(fields...)
	return wrapApplication(AppTagEncTicketPart, seq)
}

func (e *EncTicketPart) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagEncTicketPart)
	if err != nil {
		return err
	}
	sr := asn1.NewSequenceReader(content)

	e.Flags, err = readBits(sr, 0)
	if err != nil {
		return err
	}
	keyTLV, err := wantTagged(sr, 1)
	if err != nil {
		return err
	}
	if err := e.Key.Unmarshal(keyTLV); err != nil {
		return err
	}
	e.CRealm, err = readStr(sr, 2)
	if err != nil {
		return err
	}
	cnameTLV, err := wantTagged(sr, 3)
	if err != nil {
		return err
	}
	if err := e.CName.Unmarshal(cnameTLV); err != nil {
		return err
	}
	transitedTLV, err := wantTagged(sr, 4)
	if err != nil {
		return err
	}
	transitedNode, err := nodeContentOf(transitedTLV)
	if err != nil {
		return err
	}
	if err := e.Transited.Unmarshal(transitedNode.Content); err != nil {
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

	if caddrContent, ok, err := sr.TryTagged(9); err != nil {
		return err
	} else if ok {
		node, err := nodeContentOf(caddrContent)
		if err != nil {
			return err
		}
		if node.Tag != asn1.TagSequence {
			return kerrors.New(kerrors.InvalidConst, "caddr is not a SEQUENCE OF")
		}
		elems := asn1.NewSequenceReader(node.Content)
		for !elems.Done() {
			n, err := elems.Next()
			if err != nil {
				return err
			}
			var a HostAddress
			if n.Tag != asn1.TagSequence {
				return kerrors.New(kerrors.InvalidConst, "HostAddress element is not a SEQUENCE")
			}
			asr := asn1.NewSequenceReader(n.Content)
			if a.AddrType, err = readInt(asr, 0); err != nil {
				return err
			}
			if a.Address, err = readBytes(asr, 1); err != nil {
				return err
			}
			e.CAddr = append(e.CAddr, a)
		}
	}

	if adContent, ok, err := sr.TryTagged(10); err != nil {
		return err
	} else if ok {
		node, err := nodeContentOf(adContent)
		if err != nil {
			return err
		}
		if node.Tag != asn1.TagSequence {
			return kerrors.New(kerrors.InvalidConst, "authorization-data is not a SEQUENCE OF")
		}
		ad, err := unmarshalAuthorizationData(node.Content)
		if err != nil {
			return err
		}
		e.AuthorizationData = ad
	}
	return nil
}
