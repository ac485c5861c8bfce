package crypto

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"encoding/binary"

	"github.com/smnsjas/go-kerlab/kerrors"
)

// KeyUsage is a Kerberos key-usage number (RFC 4120 §7.5.1), used to
// derive a distinct subkey per message context so the same long-term key
// never encrypts two different kinds of content under the same bytes.
type KeyUsage uint32

const (
	KeyUsageASReqTimestamp KeyUsage = 1
	KeyUsageASRepTicket    KeyUsage = 2

	// KeyUsageASRepEncPart1 is the RFC 4120 §7.5.1 "AS-REP encrypted part,
	// encrypted with client key" usage. Microsoft's AD KDCs never use it;
	// AS-REP enc-part is keyed with usage 8 instead (KeyUsageASRepEncPart
	// below). Kept only so the unused variant has a name instead of a
	// silently-dropped RFC entry.
	KeyUsageASRepEncPart1 KeyUsage = 3

	KeyUsageTGSReqPAAuthenticator KeyUsage = 7

	// KeyUsageASRepEncPart and KeyUsageTGSRepEncPart both carry the value
	// 8 ("TGS-REP/AS-REP encrypted part, encrypted with session key" in
	// RFC 4757's MS extension); AD's KDC keys AS-REP's enc-part with the
	// same usage as TGS-REP's, not with KeyUsageASRepEncPart1.
	KeyUsageASRepEncPart KeyUsage = 8
	KeyUsageTGSRepEncPart KeyUsage = 8
)

func hmacMD5(key, data []byte) []byte {
	h := hmac.New(md5.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// EncryptRC4HMAC implements RFC 4757 encryption: an 8-byte random
// confounder is prepended to plaintext, an HMAC-MD5 checksum of the
// confounded plaintext is computed under a usage-derived subkey, and the
// confounded plaintext is RC4-streamed under a checksum-derived subkey.
// The wire format is checksum(16) || ciphertext.
func EncryptRC4HMAC(key []byte, usage KeyUsage, plaintext []byte) ([]byte, error) {
	confounder := make([]byte, 8)
	if _, err := rand.Read(confounder); err != nil {
		return nil, kerrors.Wrap(kerrors.Crypto, "generate confounder", err)
	}

	confounded := make([]byte, 0, len(confounder)+len(plaintext))
	confounded = append(confounded, confounder...)
	confounded = append(confounded, plaintext...)

	k1 := hmacMD5(key, usageLE(usage))
	k2 := k1[:16]
	checksum := hmacMD5(k2, confounded)
	k3 := hmacMD5(k1, checksum)

	cipher := newRC4(k3).process(confounded)

	out := make([]byte, 0, len(checksum)+len(cipher))
	out = append(out, checksum...)
	out = append(out, cipher...)
	return out, nil
}

// DecryptRC4HMAC reverses EncryptRC4HMAC and verifies the embedded checksum,
// returning the plaintext with its confounder stripped.
func DecryptRC4HMAC(key []byte, usage KeyUsage, data []byte) ([]byte, error) {
	if len(data) < 16+8 {
		return nil, kerrors.New(kerrors.Crypto, "RC4-HMAC ciphertext too short")
	}

	expectedChecksum := data[:16]
	cipher := data[16:]

	k1 := hmacMD5(key, usageLE(usage))
	k2 := k1[:16]
	k3 := hmacMD5(k1, expectedChecksum)

	confounded := newRC4(k3).process(cipher)
	checksum := hmacMD5(k2, confounded)

	if !hmac.Equal(checksum, expectedChecksum) {
		return nil, kerrors.New(kerrors.Crypto, "RC4-HMAC checksum mismatch")
	}

	return confounded[8:], nil
}

func usageLE(usage KeyUsage) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(usage))
	return b
}
