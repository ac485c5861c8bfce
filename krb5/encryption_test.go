package krb5

import (
	"testing"

	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptionKeyRoundTrip(t *testing.T) {
	key := NewEncryptionKeyRC4HMAC("sUp3rS3cr3t!")
	plaintext := []byte("preauth timestamp goes here")

	enc, err := key.Encrypt(crypto.KeyUsageASReqTimestamp, plaintext)
	require.NoError(t, err)
	assert.Equal(t, ETypeRc4Hmac, enc.EType)

	got, err := key.Decrypt(crypto.KeyUsageASReqTimestamp, enc)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptionKeyMismatchedETypeRejected(t *testing.T) {
	key := NewEncryptionKeyRC4HMAC("hunter2")
	enc := EncryptedData{EType: ETypeAes128CtsHmacSha196, Cipher: []byte{1, 2, 3}}
	_, err := key.Decrypt(crypto.KeyUsageASReqTimestamp, enc)
	assert.Error(t, err)
}

func TestEncryptedDataRoundTrip(t *testing.T) {
	kvno := uint32(7)
	ed := EncryptedData{EType: ETypeRc4Hmac, KVNO: &kvno, Cipher: []byte{0xde, 0xad, 0xbe, 0xef}}
	data := ed.Marshal()

	var got EncryptedData
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, ed.EType, got.EType)
	require.NotNil(t, got.KVNO)
	assert.Equal(t, *ed.KVNO, *got.KVNO)
	assert.Equal(t, ed.Cipher, got.Cipher)
}

func TestEncryptedDataRoundTripNoKVNO(t *testing.T) {
	ed := EncryptedData{EType: ETypeNoEncryption, Cipher: []byte("plain")}
	data := ed.Marshal()

	var got EncryptedData
	require.NoError(t, got.Unmarshal(data))
	assert.Nil(t, got.KVNO)
	assert.Equal(t, ed.Cipher, got.Cipher)
}
