package krb5

import (
	"fmt"

	"github.com/smnsjas/go-kerlab/asn1"
)

// KrbError is [APPLICATION 30] SEQUENCE { pvno[0] INTEGER, msg-type[1]
// INTEGER, ctime[2] KerberosTime OPTIONAL, cusec[3] INTEGER OPTIONAL,
// stime[4] KerberosTime, susec[5] INTEGER, error-code[6] INTEGER,
// crealm[7] Realm OPTIONAL, cname[8] PrincipalName OPTIONAL, realm[9]
// Realm, sname[10] PrincipalName, e-text[11] GeneralString OPTIONAL,
// e-data[12] OCTET STRING OPTIONAL }. The KDC sends this in place of a
// reply whenever it rejects a request.
type KrbError struct {
	PVNO      uint32
	MsgType   MessageType
	CTime     *int64
	CUSec     *uint32
	STime     int64
	SUSec     uint32
	ErrorCode int32
	CRealm    *Realm
	CName     *PrincipalName
	Realm     Realm
	SName     PrincipalName
	EText     *string
	EData     []byte
}

func (e KrbError) Marshal() []byte {
	fields := [][]byte{
		tagInt(0, e.PVNO),
		tagInt(1, uint32(e.MsgType)),
	}
	if e.CTime != nil {
		fields = append(fields, tagTime(2, unixTime(*e.CTime)))
	}
	if e.CUSec != nil {
		fields = append(fields, tagInt(3, *e.CUSec))
	}
	fields = append(fields,
		tagTime(4, unixTime(e.STime)),
		tagInt(5, e.SUSec),
		tagSInt(6, e.ErrorCode),
	)
	if e.CRealm != nil {
		crealm, _ := asn1.WriteGeneralString(*e.CRealm)
		fields = append(fields, asn1.WriteTagged(7, crealm))
	}
	if e.CName != nil {
		cname, _ := e.CName.Marshal()
		fields = append(fields, asn1.WriteTagged(8, cname))
	}
	realm, _ := asn1.WriteGeneralString(e.Realm)
	fields = append(fields, asn1.WriteTagged(9, realm))
	sname, _ := e.SName.Marshal()
	fields = append(fields, asn1.WriteTagged(10, sname))
	if e.EText != nil {
		text, _ := tagStr(11, *e.EText)
		fields = append(fields, text)
	}
	if e.EData != nil {
		fields = append(fields, tagBytes(12, e.EData))
	}
	return wrapApplication(AppTagError, asn1.WriteSequence(fields...))
}

func (e *KrbError) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagError)
	if err != nil {
		return err
	}
	sr := asn1.NewSequenceReader(content)

	e.PVNO, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	msgType, err := readInt(sr, 1)
	if err != nil {
		return err
	}
	e.MsgType = MessageType(msgType)

	if ctime, ok, err := tryTime(sr, 2); err != nil {
		return err
	} else if ok {
		v := ctime.Unix()
		e.CTime = &v
	}
	if cusec, ok, err := tryInt(sr, 3); err != nil {
		return err
	} else if ok {
		e.CUSec = &cusec
	}
	stime, err := readTime(sr, 4)
	if err != nil {
		return err
	}
	e.STime = stime.Unix()
	e.SUSec, err = readInt(sr, 5)
	if err != nil {
		return err
	}
	e.ErrorCode, err = readSInt(sr, 6)
	if err != nil {
		return err
	}
	if crealm, ok, err := tryStr(sr, 7); err != nil {
		return err
	} else if ok {
		e.CRealm = &crealm
	}
	if cnameTLV, ok, err := sr.TryTagged(8); err != nil {
		return err
	} else if ok {
		var c PrincipalName
		if err := c.Unmarshal(cnameTLV); err != nil {
			return err
		}
		e.CName = &c
	}
	e.Realm, err = readStr(sr, 9)
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
	if etext, ok, err := tryStr(sr, 11); err != nil {
		return err
	} else if ok {
		e.EText = &etext
	}
	if edata, ok, err := tryBytes(sr, 12); err != nil {
		return err
	} else if ok {
		e.EData = edata
	}
	return nil
}

// Error implements the error interface so a KrbError returned from the
// transport layer can be handled with plain Go error-checking idioms.
func (e KrbError) Error() string {
	return e.String()
}

// String renders "KRB-ERROR <code>: <text>" for logging, falling back to
// the numeric code alone when the KDC sent no e-text.
func (e KrbError) String() string {
	if e.EText != nil {
		return fmt.Sprintf("KRB-ERROR %d: %s", e.ErrorCode, *e.EText)
	}
	return fmt.Sprintf("KRB-ERROR %d", e.ErrorCode)
}
