// Package asn1 implements just enough DER/BER to carry Kerberos messages:
// a TLV reader/writer, the handful of universal primitives Kerberos uses
// (INTEGER, BOOLEAN, ENUMERATED, OCTET STRING, GeneralString,
// GeneralizedTime, BIT STRING), SEQUENCE/SEQUENCE OF framing, and explicit
// context ([N]) and application ([APPLICATION N]) tagging.
//
// There is no reflection-based marshaler here. Every Kerberos message type
// in package krb5 hand-writes its own Marshal/Unmarshal by calling the
// functions in this package in field-declaration order, the same way the
// original Rust implementation hand-expanded its Sequence derive macro.
// Optional fields use SequenceReader.PeekTag to decide whether to consume
// the next node before committing to it — a field whose tag doesn't match
// is left untouched and the cursor doesn't advance, so a later required
// field can still claim that node.
package asn1
