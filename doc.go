// Package kerlab provides a Kerberos v5 client toolkit for Active
// Directory environments: it builds, serializes, transmits, and decrypts
// AS/TGS exchange messages with fine control over every field, for
// analysts driving a KDC from outside a domain.
//
// This package itself holds no code; it documents the graph below. Start
// at whichever layer matches what you're doing.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────┐
//	│  cmd/ker*      Thin CLIs: ask for a TGT/service ticket,  │
//	│                spray, brute-force, inspect a cache       │
//	├─────────────────────────────────────────────────────────┤
//	│  transport/    Length-prefixed TCP/UDP request/response, │
//	│                KRB-ERROR discrimination                  │
//	├─────────────────────────────────────────────────────────┤
//	│  krb5/         AS-REQ/REP, TGS-REQ/REP, AP-REQ,           │
//	│                Authenticator, KRB-CRED, KRB-ERROR,       │
//	│                Ticket, PA-DATA (incl. PA-FOR-USER S4U)   │
//	├─────────────────────────────────────────────────────────┤
//	│  asn1/         DER writer, BER-tolerant reader, tagged    │
//	│                SEQUENCE helpers                           │
//	├─────────────────────────────────────────────────────────┤
//	│  crypto/       NTLM hash, RC4-HMAC envelope (RFC 4757),   │
//	│                MS-PAC signature checksum                 │
//	├─────────────────────────────────────────────────────────┤
//	│  pac/          MS-PAC / NDR binary parser for the ticket  │
//	│                authorization-data payload                │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick start
//
//	req, _ := krb5.NewASReq("CONTOSO.COM", "alice")
//	req, _ = req.WithPreauth(krb5.NewEncryptionKeyRC4HMAC("hunter2"))
//
//	var asRep krb5.AsRep
//	krbErr, err := transport.Exchange(ctx, "10.0.0.10:88", req.Marshal(), &asRep)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if krbErr != nil {
//	    log.Fatal(krbErr)
//	}
//	encPart, _ := asRep.Decrypt("hunter2")
package kerlab
