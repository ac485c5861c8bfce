package krb5

import (
	"testing"

	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKrbCredMarshalsWithoutError(t *testing.T) {
	ticket := Ticket{
		TktVNO:  ProtocolVersion,
		Realm:   "CONTOSO.COM",
		SName:   NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
		EncPart: EncryptedData{EType: ETypeRc4Hmac, Cipher: []byte("opaque")},
	}
	encPart := EncKDCRepPart{
		Key:      NewEncryptionKeyRC4HMAC("session"),
		SRealm:   "CONTOSO.COM",
		SName:    NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
		AuthTime: 1000,
		EndTime:  2000,
	}
	name := NewPrincipalName(NameTypePrincipal, "alice")

	cred, err := NewKrbCred(name, ticket, encPart)
	require.NoError(t, err)

	data := cred.Marshal()
	node, rest, err := asn1.ReadSingle(data)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, asn1.ClassApplication, node.Class)
	assert.Equal(t, AppTagCred, node.Tag)
	assert.Equal(t, MessageTypeCred, cred.Inner.MsgType)
	require.Len(t, cred.Inner.Tickets, 1)

	var got KrbCred
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, cred.Inner.MsgType, got.Inner.MsgType)
	require.Len(t, got.Inner.Tickets, 1)
	assert.Equal(t, ticket.Realm, got.Inner.Tickets[0].Realm)

	var decoded EncKrbCredPart
	noKey := NewEncryptionKeyNoEncryption()
	plain, err := noKey.Decrypt(crypto.KeyUsageASRepEncPart, got.Inner.EncPart)
	require.NoError(t, err)
	require.NoError(t, decoded.Unmarshal(plain))
	require.Len(t, decoded.Inner.TicketInfo, 1)
	require.NotNil(t, decoded.Inner.TicketInfo[0].PName)
	assert.Equal(t, "alice", decoded.Inner.TicketInfo[0].PName.String())
}
