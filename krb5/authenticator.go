package krb5

import (
	"time"

	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// Authenticator is [APPLICATION 2] SEQUENCE { authenticator-vno[0] INTEGER,
// crealm[1] Realm, cname[2] PrincipalName, cksum[3] Checksum OPTIONAL,
// cusec[4] INTEGER, ctime[5] KerberosTime, subkey[6] EncryptionKey
// OPTIONAL, seq-number[7] INTEGER OPTIONAL, authorization-data[8]
// AuthorizationData OPTIONAL }. It proves to a service that the client
// holds the session key inside the ticket it is presented alongside.
type Authenticator struct {
	VNO               uint32
	CRealm            Realm
	CName             PrincipalName
	Cksum             *Checksum
	CUSec             uint32
	CTime             int64
	Subkey            *EncryptionKey
	SeqNumber         *uint32
	AuthorizationData AuthorizationData
}

// NewAuthenticator builds the minimal authenticator AP-REQ needs: identity
// and the current time, stamped fresh on every call.
func NewAuthenticator(crealm Realm, cname PrincipalName) Authenticator {
	return Authenticator{
		VNO:    ProtocolVersion,
		CRealm: crealm,
		CName:  cname,
		CTime:  time.Now().Unix(),
	}
}

func (a Authenticator) Marshal() []byte {
	cname, _ := a.CName.Marshal()
	crealm, _ := asn1.WriteGeneralString(a.CRealm)

	fields := [][]byte{
		tagInt(0, a.VNO),
		asn1.WriteTagged(1, crealm),
		asn1.WriteTagged(2, cname),
	}
	if a.Cksum != nil {
		fields = append(fields, asn1.WriteTagged(3, a.Cksum.Marshal()))
	}
	fields = append(fields,
		tagInt(4, a.CUSec),
		tagTime(5, unixTime(a.CTime)),
	)
	if a.Subkey != nil {
		fields = append(fields, asn1.WriteTagged(6, a.Subkey.Marshal()))
	}
	if a.SeqNumber != nil {
		fields = append(fields, tagInt(7, *a.SeqNumber))
	}
	if len(a.AuthorizationData) > 0 {
		fields = append(fields, asn1.WriteTagged(8, a.AuthorizationData.marshalSequence()))
	}
	return wrapApplication(AppTagAuthenticator, asn1.WriteSequence(fields...))
}

func (a *Authenticator) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagAuthenticator)
	if err != nil {
		return err
	}
	sr := asn1.NewSequenceReader(content)

	a.VNO, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	a.CRealm, err = readStr(sr, 1)
	if err != nil {
		return err
	}
	cnameTLV, err := wantTagged(sr, 2)
	if err != nil {
		return err
	}
	if err := a.CName.Unmarshal(cnameTLV); err != nil {
		return err
	}
	if cksumTLV, ok, err := sr.TryTagged(3); err != nil {
		return err
	} else if ok {
		var c Checksum
		if err := c.Unmarshal(cksumTLV); err != nil {
			return err
		}
		a.Cksum = &c
	}
	a.CUSec, err = readInt(sr, 4)
	if err != nil {
		return err
	}
	ctime, err := readTime(sr, 5)
	if err != nil {
		return err
	}
	a.CTime = ctime.Unix()
	if subkeyTLV, ok, err := sr.TryTagged(6); err != nil {
		return err
	} else if ok {
		var k EncryptionKey
		if err := k.Unmarshal(subkeyTLV); err != nil {
			return err
		}
		a.Subkey = &k
	}
	if seq, ok, err := tryInt(sr, 7); err != nil {
		return err
	} else if ok {
		a.SeqNumber = &seq
	}
	if adContent, ok, err := sr.TryTagged(8); err != nil {
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
		a.AuthorizationData = ad
	}
	return nil
}
