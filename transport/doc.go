// Package transport carries DER-encoded Kerberos messages to a KDC over
// TCP or UDP using the big-endian uint32 length-prefix framing RFC 4120
// §7.2.2 prescribes. It is deliberately thin: no connection pooling, no
// retry loop, no fragment reassembly. Every exchange first attempts to
// decode the reply as a KRB-ERROR before falling back to the caller's
// expected reply type, relying on the asn1 package's soft tag-mismatch
// semantics to tell the two apart without a priori knowledge of which
// one the KDC sent.
package transport
