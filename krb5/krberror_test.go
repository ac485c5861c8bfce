package krb5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKrbErrorRoundTrip(t *testing.T) {
	etext := "KDC_ERR_PREAUTH_REQUIRED"
	e := KrbError{
		PVNO:      ProtocolVersion,
		MsgType:   MessageTypeError,
		STime:     1000,
		SUSec:     0,
		ErrorCode: 25,
		Realm:     "CONTOSO.COM",
		SName:     NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
		EText:     &etext,
	}
	data := e.Marshal()

	var got KrbError
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, e.ErrorCode, got.ErrorCode)
	assert.Equal(t, e.Realm, got.Realm)
	require.NotNil(t, got.EText)
	assert.Equal(t, etext, *got.EText)
	assert.Equal(t, "KRB-ERROR 25: KDC_ERR_PREAUTH_REQUIRED", got.String())
	assert.Equal(t, got.String(), got.Error())
}

func TestKrbErrorWithoutEText(t *testing.T) {
	e := KrbError{
		PVNO:      ProtocolVersion,
		MsgType:   MessageTypeError,
		STime:     1000,
		ErrorCode: 6,
		Realm:     "CONTOSO.COM",
		SName:     NewPrincipalName(NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
	}
	assert.Equal(t, "KRB-ERROR 6", e.String())
}
