package crypto

import (
	"unicode/utf16"

	"golang.org/x/crypto/md4"
)

// NTLMHash computes the NTLM password hash used as RC4-HMAC key material:
// MD4 over the UTF-16LE encoding of password.
func NTLMHash(password string) []byte {
	h := md4.New()
	h.Write(utf16LE(password))
	return h.Sum(nil)
}

func utf16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}
