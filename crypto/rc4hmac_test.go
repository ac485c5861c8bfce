package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRC4HMACRoundTrip(t *testing.T) {
	key := NTLMHash("Passw0rd!")
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	cipher, err := EncryptRC4HMAC(key, KeyUsageASRepEncPart, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, cipher)

	got, err := DecryptRC4HMAC(key, KeyUsageASRepEncPart, cipher)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

// TestRC4HMACASRepEncPartIsUsage8 pins KeyUsageASRepEncPart to its literal
// RFC 4757 value. AD's KDC encrypts AS-REP's enc-part with usage 8, the
// same usage TGS-REP uses; KeyUsageASRepEncPart1 (3) is a distinct, unused
// RFC 4120 variant. A regression that swaps the constant back to 3 would
// still pass TestRC4HMACRoundTrip (it's symmetric), so check the value
// directly here instead.
func TestRC4HMACASRepEncPartIsUsage8(t *testing.T) {
	assert.Equal(t, KeyUsage(8), KeyUsageASRepEncPart)
	assert.Equal(t, KeyUsageTGSRepEncPart, KeyUsageASRepEncPart)
	assert.Equal(t, KeyUsage(3), KeyUsageASRepEncPart1)
}

func TestRC4HMACWrongKeyFailsChecksum(t *testing.T) {
	key := NTLMHash("Passw0rd!")
	other := NTLMHash("different")
	plaintext := []byte("secret ticket bytes")

	cipher, err := EncryptRC4HMAC(key, KeyUsageTGSRepEncPart, plaintext)
	require.NoError(t, err)

	_, err = DecryptRC4HMAC(other, KeyUsageTGSRepEncPart, cipher)
	assert.Error(t, err)
}

func TestRC4HMACUsageBindsCiphertext(t *testing.T) {
	key := NTLMHash("Passw0rd!")
	plaintext := []byte("timestamp payload")

	cipher, err := EncryptRC4HMAC(key, KeyUsageASReqTimestamp, plaintext)
	require.NoError(t, err)

	_, err = DecryptRC4HMAC(key, KeyUsageASRepTicket, cipher)
	assert.Error(t, err, "decrypting under the wrong key usage must fail the checksum check")
}

func TestKerberosHMACMD5Deterministic(t *testing.T) {
	key := NTLMHash("Passw0rd!")
	a := KerberosHMACMD5(key, 17, []byte("pac buffer"))
	b := KerberosHMACMD5(key, 17, []byte("pac buffer"))
	assert.Equal(t, a, b)

	c := KerberosHMACMD5(key, 17, []byte("different pac buffer"))
	assert.NotEqual(t, a, c)
}
