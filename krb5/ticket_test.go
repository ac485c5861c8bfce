package krb5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRoundTrip(t *testing.T) {
	key := NewEncryptionKeyRC4HMAC("password1")
	enc, err := key.Encrypt(2, []byte("enc-ticket-part bytes"))
	require.NoError(t, err)

	tkt := Ticket{
		TktVNO:  ProtocolVersion,
		Realm:   "CONTOSO.COM",
		SName:   NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
		EncPart: enc,
	}
	data := tkt.Marshal()

	var got Ticket
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, tkt.Realm, got.Realm)
	assert.Equal(t, tkt.SName, got.SName)
	assert.Equal(t, tkt.EncPart.EType, got.EncPart.EType)
	assert.Equal(t, "krbtgt/CONTOSO.COM@CONTOSO.COM", tkt.String())
}

func TestEncTicketPartRoundTrip(t *testing.T) {
	start := int64(1000)
	etp := EncTicketPart{
		Flags:     JoinOptions(OptForwardable, OptRenewable),
		Key:       NewEncryptionKeyRC4HMAC("hunter2"),
		CRealm:    "CONTOSO.COM",
		CName:     NewPrincipalName(NameTypePrincipal, "alice"),
		Transited: TransitedEncoding{TRType: 1, Contents: []byte{}},
		AuthTime:  1000,
		StartTime: &start,
		EndTime:   2000,
	}
	data := etp.Marshal()

	var got EncTicketPart
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, etp.CRealm, got.CRealm)
	assert.Equal(t, etp.CName, got.CName)
	assert.True(t, HasOption(got.Flags, OptForwardable))
	assert.True(t, HasOption(got.Flags, OptRenewable))
	assert.False(t, HasOption(got.Flags, OptProxiable))
	require.NotNil(t, got.StartTime)
	assert.Equal(t, start, *got.StartTime)
	assert.Contains(t, etp.String(), "alice@CONTOSO.COM")
	assert.Contains(t, etp.String(), "forwardable")
}
