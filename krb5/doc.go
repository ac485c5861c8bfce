// Package krb5 implements the Kerberos v5 message layer (RFC 1510 / RFC
// 4120) on top of package asn1: principal names, tickets, the AS and TGS
// request/reply pairs, AP-REQ, Authenticator, KRB-ERROR, and KRB-CRED, plus
// the PA-DATA payloads Active Directory expects (PA-ENC-TIMESTAMP,
// PA-FOR-USER for S4U, PA-TGS-REQ).
//
// Every message type hand-writes its own field encode/decode by calling
// the small set of tagged-field helpers in codec.go, in ASN.1 field-
// declaration order — there is no reflection-driven marshaler. Optional
// fields use the soft tag-mismatch semantics package asn1 exposes through
// SequenceReader.TryTagged: a field whose tag doesn't match the next node
// is simply left at its zero value, and the cursor does not advance.
package krb5
