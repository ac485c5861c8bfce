// Package pac decodes the MS-PAC privilege attribute certificate carried
// inside a ticket's AuthorizationData as an AD-WIN2K-PAC element. The
// format predates ASN.1 in this toolkit's ticket path: PACTYPE and its
// info buffers are little-endian NDR, not DER, so this package reads raw
// byte offsets rather than going through the asn1 package.
//
// Only the buffer types kerlab actually consumes are decoded:
// KerbValidationInfo (partially, per MS-PAC §2.5), PacClientInfo,
// UpnDnsInfo, and PacSignatureData. A buffer of any other type makes
// Parse fail with a Parsing error.
package pac
