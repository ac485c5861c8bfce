package krb5

import (
	"time"

	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// PAData is SEQUENCE { padata-type[1] INTEGER, padata-value[2] OCTET
// STRING }. Note the field tags start at 1, not 0 — RFC 4120 leaves tag 0
// unused here.
type PAData struct {
	Type  PADataType
	Value []byte
}

func (p PAData) Marshal() []byte {
	return asn1.WriteSequence(
		tagInt(1, uint32(p.Type)),
		tagBytes(2, p.Value),
	)
}

func (p *PAData) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "PAData is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)

	t, err := readInt(sr, 1)
	if err != nil {
		return err
	}
	p.Type = PADataType(t)

	p.Value, err = readBytes(sr, 2)
	return err
}

// NewPAEncTimestamp builds the PA-ENC-TIMESTAMP pre-authentication entry:
// the client's current time, encrypted under key.
func NewPAEncTimestamp(key EncryptionKey) (PAData, error) {
	ts := PAEncTsEnc{PaTimestamp: time.Now()}
	enc, err := key.Encrypt(crypto.KeyUsageASReqTimestamp, ts.Marshal())
	if err != nil {
		return PAData{}, err
	}
	return PAData{Type: PaEncTimestamp, Value: enc.Marshal()}, nil
}

// NewPAForUser builds the PA-FOR-USER (S4U2Self) pre-authentication entry
// impersonating userName in userRealm, checksummed with key (the session
// key of the requesting service's TGT).
func NewPAForUser(userName PrincipalName, userRealm Realm, key EncryptionKey) (PAData, error) {
	pfu, err := newPAForUser(userName, userRealm, key)
	if err != nil {
		return PAData{}, err
	}
	return PAData{Type: PaForUser, Value: pfu.Marshal()}, nil
}

// PAEncTsEnc is SEQUENCE { patimestamp[0] KerberosTime, pausec[1] INTEGER
// OPTIONAL }.
type PAEncTsEnc struct {
	PaTimestamp time.Time
	PaUSec      *uint32
}

func (t PAEncTsEnc) Marshal() []byte {
	fields := [][]byte{tagTime(0, t.PaTimestamp)}
	if t.PaUSec != nil {
		fields = append(fields, tagInt(1, *t.PaUSec))
	}
	return asn1.WriteSequence(fields...)
}

func (t *PAEncTsEnc) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "PAEncTsEnc is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)

	t.PaTimestamp, err = readTime(sr, 0)
	if err != nil {
		return err
	}
	if us, ok, err := tryInt(sr, 1); err != nil {
		return err
	} else if ok {
		t.PaUSec = &us
	} else {
		t.PaUSec = nil
	}
	return nil
}

// paForUser is SEQUENCE { userName[0] PrincipalName, userRealm[1] Realm,
// cksum[2] Checksum, auth-package[3] KerberosString }.
type paForUser struct {
	UserName    PrincipalName
	UserRealm   Realm
	Cksum       Checksum
	AuthPackage string
}

const authPackageKerberos = "Kerberos"

func newPAForUser(userName PrincipalName, userRealm Realm, key EncryptionKey) (paForUser, error) {
	if _, err := userName.Marshal(); err != nil {
		return paForUser{}, err
	}
	var data []byte
	data = append(data, le32(uint32(userName.NameType))...)
	for _, s := range userName.Labels {
		data = append(data, []byte(s)...)
	}
	data = append(data, []byte(userRealm)...)
	data = append(data, []byte(authPackageKerberos)...)

	sum := crypto.KerberosHMACMD5(key.KeyValue, PAForUserChecksumKeyUsage, data)

	return paForUser{
		UserName:    userName,
		UserRealm:   userRealm,
		Cksum:       NewChecksum(ChecksumKerbHMACMD5, sum),
		AuthPackage: authPackageKerberos,
	}, nil
}

func (p paForUser) Marshal() []byte {
	nameTLV, err := p.UserName.Marshal()
	if err != nil {
		// newPAForUser rejects names that fail to marshal, so this
		// cannot happen for values it built.
		nameTLV = asn1.WriteSequence()
	}
	realmTLV, _ := asn1.WriteGeneralString(p.UserRealm)
	authTLV, _ := asn1.WriteGeneralString(p.AuthPackage)
	return asn1.WriteSequence(
		asn1.WriteTagged(0, nameTLV),
		asn1.WriteTagged(1, realmTLV),
		asn1.WriteTagged(2, p.Cksum.Marshal()),
		asn1.WriteTagged(3, authTLV),
	)
}
