package crypto

import (
	"crypto/md5"
	"encoding/binary"
)

// KerberosHMACMD5 computes the "kerberos_hmac_md5" checksum RFC 4757 §3
// defines for the PAC server and KDC signatures. It is deliberately
// distinct from the RC4-HMAC encryption envelope's own key derivation.
func KerberosHMACMD5(key []byte, keyUsage int32, plaintext []byte) []byte {
	ksign := hmacMD5(key, []byte("signaturekey\x00"))

	usage := make([]byte, 4)
	binary.LittleEndian.PutUint32(usage, uint32(keyUsage))

	tmp := md5.Sum(append(usage, plaintext...))
	return hmacMD5(ksign, tmp[:])
}
