package krb5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASReqRoundTrip(t *testing.T) {
	req, err := NewASReq("CONTOSO.COM", "alice", OptForwardable, OptRenewable)
	require.NoError(t, err)

	key := NewEncryptionKeyRC4HMAC("hunter2")
	req, err = req.WithPreauth(key)
	require.NoError(t, err)
	require.Len(t, req.Inner.PAData, 1)
	assert.Equal(t, PaEncTimestamp, req.Inner.PAData[0].Type)

	data := req.Marshal()
	var got AsReq
	require.NoError(t, got.Unmarshal(data))

	assert.Equal(t, uint32(ProtocolVersion), got.Inner.PVNO)
	assert.Equal(t, MessageTypeASReq, got.Inner.MsgType)
	assert.Equal(t, "CONTOSO.COM", got.Inner.ReqBody.Realm)
	require.NotNil(t, got.Inner.ReqBody.CName)
	assert.Equal(t, "alice", got.Inner.ReqBody.CName.String())
	require.NotNil(t, got.Inner.ReqBody.SName)
	assert.Equal(t, "krbtgt/CONTOSO.COM", got.Inner.ReqBody.SName.String())
	assert.True(t, HasOption(got.Inner.ReqBody.KDCOptions, OptForwardable))
	assert.True(t, HasOption(got.Inner.ReqBody.KDCOptions, OptRenewable))
	require.Len(t, got.Inner.PAData, 1)
	assert.Equal(t, PaEncTimestamp, got.Inner.PAData[0].Type)
}

func TestTGSReqForUserRoundTrip(t *testing.T) {
	ticket := Ticket{
		TktVNO: ProtocolVersion,
		Realm:  "CONTOSO.COM",
		SName:  NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
		EncPart: EncryptedData{
			EType:  ETypeRc4Hmac,
			Cipher: []byte("opaque"),
		},
	}
	sessionKey := NewEncryptionKeyRC4HMAC("sessionsecret")
	authn := NewAuthenticator("CONTOSO.COM", NewPrincipalName(NameTypePrincipal, "svc"))
	apReq, err := NewAPReq(ticket, sessionKey, authn)
	require.NoError(t, err)

	sname := NewPrincipalName(NameTypeSrvHst, "host", "target.contoso.com", "CONTOSO.COM")
	tgsReq, err := NewTGSReq("CONTOSO.COM", "svc", sname, apReq, OptCanonicalize)
	require.NoError(t, err)

	impersonated := NewPrincipalName(NameTypePrincipal, "victim")
	tgsReq, err = tgsReq.ForUser(impersonated, "CONTOSO.COM", sessionKey)
	require.NoError(t, err)
	require.Len(t, tgsReq.Inner.PAData, 2)
	assert.Equal(t, PaTGSReq, tgsReq.Inner.PAData[0].Type)
	assert.Equal(t, PaForUser, tgsReq.Inner.PAData[1].Type)

	data := tgsReq.Marshal()
	var got TgsReq
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, MessageTypeTGSReq, got.Inner.MsgType)
	require.Len(t, got.Inner.PAData, 2)

	var gotApReq ApReq
	require.NoError(t, gotApReq.Unmarshal(got.Inner.PAData[0].Value))
	assert.Equal(t, MessageTypeAPReq, gotApReq.MsgType)
}
