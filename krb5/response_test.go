package krb5

import (
	"testing"

	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsRepDecrypt(t *testing.T) {
	clientKey := NewEncryptionKeyRC4HMAC("correcthorsebatterystaple")
	sessionKey := NewEncryptionKeyRC4HMAC("ephemeral-session-key")

	part := EncASRepPart{Inner: EncKDCRepPart{
		Key:      sessionKey,
		LastReq:  LastReq{{Type: 0, Value: 500}},
		Nonce:    12345,
		Flags:    JoinOptions(OptForwardable, OptRenewable),
		AuthTime: 1000,
		EndTime:  2000,
		SRealm:   "CONTOSO.COM",
		SName:    NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
	}}

	encPart, err := clientKey.Encrypt(crypto.KeyUsageASRepEncPart, part.Marshal())
	require.NoError(t, err)

	rep := AsRep{Inner: KdcRep{
		PVNO:    ProtocolVersion,
		MsgType: MessageTypeASRep,
		CRealm:  "CONTOSO.COM",
		CName:   NewPrincipalName(NameTypePrincipal, "alice"),
		Ticket: Ticket{
			TktVNO:  ProtocolVersion,
			Realm:   "CONTOSO.COM",
			SName:   NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
			EncPart: EncryptedData{EType: ETypeRc4Hmac, Cipher: []byte("ticket cipher")},
		},
		EncPart: encPart,
	}}

	data := rep.Marshal()
	var gotRep AsRep
	require.NoError(t, gotRep.Unmarshal(data))
	assert.Equal(t, MessageTypeASRep, gotRep.Inner.MsgType)

	decrypted, err := gotRep.Decrypt("correcthorsebatterystaple")
	require.NoError(t, err)
	assert.Equal(t, uint32(12345), decrypted.Inner.Nonce)
	assert.Equal(t, "CONTOSO.COM", decrypted.Inner.SRealm)
	assert.Equal(t, "krbtgt/CONTOSO.COM", decrypted.Inner.SName.String())
	require.Len(t, decrypted.Inner.LastReq, 1)
	assert.Equal(t, int64(500), decrypted.Inner.LastReq[0].Value)
}

// TestAsRepDecryptUsesKeyUsage8 pins AS-REP enc-part decryption to the
// literal RFC 4757 key-usage number an AD KDC actually encrypts it with,
// rather than round-tripping through whichever constant DecryptWithKey
// happens to reference. Encrypting under crypto.KeyUsageASRepEncPart1 (3)
// here must NOT decrypt: if AsRep.Decrypt ever regresses to usage 3, this
// fails even though a same-constant round trip would still pass.
func TestAsRepDecryptUsesKeyUsage8(t *testing.T) {
	clientKey := NewEncryptionKeyRC4HMAC("correcthorsebatterystaple")
	sessionKey := NewEncryptionKeyRC4HMAC("ephemeral-session-key")

	part := EncASRepPart{Inner: EncKDCRepPart{
		Key:      sessionKey,
		LastReq:  LastReq{{Type: 0, Value: 500}},
		Nonce:    777,
		AuthTime: 1000,
		EndTime:  2000,
		SRealm:   "CONTOSO.COM",
		SName:    NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
	}}

	encPart, err := clientKey.Encrypt(crypto.KeyUsage(8), part.Marshal())
	require.NoError(t, err)

	rep := AsRep{Inner: KdcRep{
		PVNO:    ProtocolVersion,
		MsgType: MessageTypeASRep,
		CRealm:  "CONTOSO.COM",
		CName:   NewPrincipalName(NameTypePrincipal, "alice"),
		Ticket: Ticket{
			TktVNO:  ProtocolVersion,
			Realm:   "CONTOSO.COM",
			SName:   NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
			EncPart: EncryptedData{EType: ETypeRc4Hmac, Cipher: []byte("ticket cipher")},
		},
		EncPart: encPart,
	}}

	decrypted, err := rep.Decrypt("correcthorsebatterystaple")
	require.NoError(t, err)
	assert.Equal(t, uint32(777), decrypted.Inner.Nonce)

	wrongUsage, err := clientKey.Encrypt(crypto.KeyUsageASRepEncPart1, part.Marshal())
	require.NoError(t, err)
	wrongRep := rep
	wrongRep.Inner.EncPart = wrongUsage
	_, err = wrongRep.Decrypt("correcthorsebatterystaple")
	assert.Error(t, err, "AS-REP enc-part encrypted under usage 3 must not decrypt as usage 8")
}
