// Package crypto implements the RC4-HMAC encryption envelope (RFC 4757)
// used to protect Kerberos AS-REP/TGS-REP enc-parts and to build
// PA-ENC-TIMESTAMP pre-authentication data against an Active Directory KDC,
// plus the NTLM password hash that RC4-HMAC uses as key material and the
// MS-PAC server/KDC checksum algorithm.
//
// Only krb5.ETypeNoEncryption and krb5.ETypeRc4Hmac have working
// implementations. Every other krb5.EType value is declared (so a decoded EncryptedData can
// report which algorithm it wants) but dispatching to it returns a Crypto
// error rather than silently falling back to one of the two that work.
package crypto
