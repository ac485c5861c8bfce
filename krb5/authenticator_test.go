package krb5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatorRoundTripWithOptionalFields(t *testing.T) {
	subkey := NewEncryptionKeyRC4HMAC("subkeymaterial")
	seq := uint32(42)
	authn := Authenticator{
		VNO:       ProtocolVersion,
		CRealm:    "CONTOSO.COM",
		CName:     NewPrincipalName(NameTypePrincipal, "alice"),
		Cksum:     &Checksum{CksumType: -138, Sum: []byte{1, 2, 3, 4}},
		CUSec:     123,
		CTime:     1000,
		Subkey:    &subkey,
		SeqNumber: &seq,
		AuthorizationData: AuthorizationData{
			{ADType: AdWin2kPac, ADData: []byte{9, 9}},
		},
	}
	data := authn.Marshal()

	var got Authenticator
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, authn.CRealm, got.CRealm)
	assert.Equal(t, authn.CName, got.CName)
	require.NotNil(t, got.Cksum)
	assert.Equal(t, authn.Cksum.CksumType, got.Cksum.CksumType)
	require.NotNil(t, got.Subkey)
	assert.Equal(t, authn.Subkey.KeyType, got.Subkey.KeyType)
	require.NotNil(t, got.SeqNumber)
	assert.Equal(t, seq, *got.SeqNumber)
	require.Len(t, got.AuthorizationData, 1)
	assert.Equal(t, AdWin2kPac, got.AuthorizationData[0].ADType)
}

func TestAuthenticatorMinimalRoundTrip(t *testing.T) {
	authn := NewAuthenticator("CONTOSO.COM", NewPrincipalName(NameTypePrincipal, "svc"))
	data := authn.Marshal()

	var got Authenticator
	require.NoError(t, got.Unmarshal(data))
	assert.Nil(t, got.Cksum)
	assert.Nil(t, got.Subkey)
	assert.Nil(t, got.SeqNumber)
	assert.Empty(t, got.AuthorizationData)
}
