package krb5

import "github.com/smnsjas/go-kerlab/asn1"

// KDCOption is a bit position (MSB-first, per RFC 4120's BIT STRING
// indexing) within the 32-bit kdc-options / ticket-flags word. These
// positions follow RFC 4120 directly and take precedence over the raw
// 32-bit mask constants the original Rust implementation assigned its
// KdcOptionsType enum, which do not line up with BIT STRING bit indexing
// (e.g. it places Renewable and RenewableOk on byte-aligned mask values
// instead of bit positions 8 and 27).
type KDCOption int

const (
	OptReserved              KDCOption = 0
	OptForwardable           KDCOption = 1
	OptForwarded             KDCOption = 2
	OptProxiable             KDCOption = 3
	OptProxy                 KDCOption = 4
	OptAllowPostdate         KDCOption = 5
	OptPostdated             KDCOption = 6
	OptRenewable             KDCOption = 8
	OptConstrainedDelegation KDCOption = 14
	OptCanonicalize          KDCOption = 15
	OptDisableTransitedCheck KDCOption = 26
	OptRenewableOk           KDCOption = 27
)

// JoinOptions packs a set of KDC-option bits into the big-endian 32-bit
// word kdc-options carries on the wire, as a BIT STRING.
func JoinOptions(opts ...KDCOption) []byte {
	bits := make([]byte, 4)
	for _, o := range opts {
		bits = asn1.SetBit(bits, int(o))
	}
	return bits
}

// HasOption reports whether a decoded kdc-options/ticket-flags bit string
// has the given bit set.
func HasOption(bits []byte, o KDCOption) bool {
	return asn1.BitAt(bits, int(o))
}
