package krb5

import (
	"testing"

	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalNameFixture(t *testing.T) {
	pn := PrincipalName{NameType: 2, Labels: []string{"foo"}}
	got, err := pn.Marshal()
	require.NoError(t, err)
	want := []byte{48, 14, 160, 3, 2, 1, 2, 161, 7, 48, 5, 27, 3, 102, 111, 111}
	assert.Equal(t, want, got)
}

func TestPrincipalNameRoundTrip(t *testing.T) {
	pn := NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM")
	data, err := pn.Marshal()
	require.NoError(t, err)

	var got PrincipalName
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, pn, got)
	assert.Equal(t, "krbtgt/CONTOSO.COM", got.String())
}

func TestAuthorizationDataRoundTrip(t *testing.T) {
	ad := AuthorizationData{
		{ADType: AdWin2kPac, ADData: []byte{1, 2, 3}},
		{ADType: AdIfRelevant, ADData: []byte{4, 5}},
	}
	node, _, err := asn1.ReadSingle(ad.marshalSequence())
	require.NoError(t, err)
	got, err := unmarshalAuthorizationData(node.Content)
	require.NoError(t, err)
	assert.Equal(t, ad, got)
}
