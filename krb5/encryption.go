package krb5

import (
	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/smnsjas/go-kerlab/kerrors"
)

// EType identifies a Kerberos encryption type. Active Directory's RC4-HMAC
// path (etype 23) is the only one this package can actually encrypt or
// decrypt; the others are recognized so a parsed message round-trips, and
// NoEncryption exists for the rare message that legitimately carries
// plaintext in an EncryptedData envelope.
type EType int32

const (
	ETypeNoEncryption          EType = 0
	ETypeDesCbcCrc             EType = 1
	ETypeDesCbcMd5             EType = 3
	ETypeAes128CtsHmacSha196   EType = 17
	ETypeAes256CtsHmacSha196   EType = 18
	ETypeRc4Hmac               EType = 23
	ETypeRc4HmacExp            EType = 24
)

// EncryptedData is SEQUENCE { etype[0] INTEGER, kvno[1] INTEGER OPTIONAL,
// cipher[2] OCTET STRING }.
type EncryptedData struct {
	EType  EType
	KVNO   *uint32
	Cipher []byte
}

func (e EncryptedData) Marshal() []byte {
	fields := [][]byte{tagSInt(0, int32(e.EType))}
	if e.KVNO != nil {
		fields = append(fields, tagInt(1, *e.KVNO))
	}
	fields = append(fields, tagBytes(2, e.Cipher))
	return asn1.WriteSequence(fields...)
}

func (e *EncryptedData) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "EncryptedData is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)

	etype, err := readSInt(sr, 0)
	if err != nil {
		return err
	}
	e.EType = EType(etype)

	if kvno, ok, err := tryInt(sr, 1); err != nil {
		return err
	} else if ok {
		e.KVNO = &kvno
	} else {
		e.KVNO = nil
	}

	e.Cipher, err = readBytes(sr, 2)
	return err
}

// EncryptionKey is SEQUENCE { keytype[0] INTEGER, keyvalue[1] OCTET STRING }.
type EncryptionKey struct {
	KeyType  EType
	KeyValue []byte
}

// NewEncryptionKeyNoEncryption builds the placeholder key NoEncryption uses:
// an empty key value that Encrypt/Decrypt pass plaintext straight through.
func NewEncryptionKeyNoEncryption() EncryptionKey {
	return EncryptionKey{KeyType: ETypeNoEncryption}
}

// NewEncryptionKeyRC4HMAC derives the RC4-HMAC key from a user password via
// the NTLM hash.
func NewEncryptionKeyRC4HMAC(password string) EncryptionKey {
	return EncryptionKey{KeyType: ETypeRc4Hmac, KeyValue: crypto.NTLMHash(password)}
}

// NewEncryptionKeyRC4HMACFromHash builds the key directly from an already
// computed NTLM hash (pass-the-hash).
func NewEncryptionKeyRC4HMACFromHash(hash []byte) EncryptionKey {
	return EncryptionKey{KeyType: ETypeRc4Hmac, KeyValue: hash}
}

func (k EncryptionKey) Marshal() []byte {
	return asn1.WriteSequence(
		tagSInt(0, int32(k.KeyType)),
		tagBytes(1, k.KeyValue),
	)
}

func (k *EncryptionKey) Unmarshal(data []byte) error {
	node, err := nodeContentOf(data)
	if err != nil {
		return err
	}
	if node.Tag != asn1.TagSequence {
		return kerrors.New(kerrors.InvalidConst, "EncryptionKey is not a SEQUENCE")
	}
	sr := asn1.NewSequenceReader(node.Content)

	keytype, err := readSInt(sr, 0)
	if err != nil {
		return err
	}
	k.KeyType = EType(keytype)

	k.KeyValue, err = readBytes(sr, 1)
	return err
}

// Encrypt wraps plaintext in an EncryptedData envelope under k, keyed to
// usage so ciphertext from one message slot can't be replayed into another.
func (k EncryptionKey) Encrypt(usage crypto.KeyUsage, plaintext []byte) (EncryptedData, error) {
	switch k.KeyType {
	case ETypeNoEncryption:
		return EncryptedData{EType: k.KeyType, Cipher: plaintext}, nil
	case ETypeRc4Hmac:
		cipher, err := crypto.EncryptRC4HMAC(k.KeyValue, usage, plaintext)
		if err != nil {
			return EncryptedData{}, err
		}
		return EncryptedData{EType: k.KeyType, Cipher: cipher}, nil
	default:
		return EncryptedData{}, kerrors.Newf(kerrors.Crypto, "unsupported encryption type %d", k.KeyType)
	}
}

// Decrypt reverses Encrypt, verifying data.EType matches k before attempting
// anything.
func (k EncryptionKey) Decrypt(usage crypto.KeyUsage, data EncryptedData) ([]byte, error) {
	if k.KeyType != data.EType {
		return nil, kerrors.New(kerrors.Crypto, "key type does not match EncryptedData etype")
	}
	switch k.KeyType {
	case ETypeNoEncryption:
		return data.Cipher, nil
	case ETypeRc4Hmac:
		return crypto.DecryptRC4HMAC(k.KeyValue, usage, data.Cipher)
	default:
		return nil, kerrors.Newf(kerrors.Crypto, "unsupported encryption type %d", k.KeyType)
	}
}
