package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBin(t *testing.T) {
	// blake2b-256 of the empty string
	assert.Equal(t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		hex.EncodeToString(HashBin("")))

	// 32 bytes regardless of input length
	assert.Len(t, HashBin("hello"), 32)
	assert.NotEqual(t, HashBin("hello"), HashBin("hello!"))
}

func TestBase64URLHash(t *testing.T) {
	got := Base64URLHash(HashBin("hello"))
	assert.NotContains(t, got, "=", "request keys are unpadded")
	assert.NotContains(t, got, "+")
	assert.NotContains(t, got, "/")
	assert.Len(t, got, 43)
}

func TestHexRoundTrip(t *testing.T) {
	b := []byte{0x00, 0xff, 0x10, 0xab}
	assert.Equal(t, "00ff10ab", BinToHex(b))
	assert.Equal(t, b, HexToBin("00ff10ab"))
	assert.Nil(t, HexToBin("not hex"))
}

func TestGenKeyPair(t *testing.T) {
	kp, err := GenKeyPair()
	require.NoError(t, err)
	assert.Len(t, kp.PublicKey, 64)
	assert.Len(t, kp.SecretKey, 64)

	other, err := GenKeyPair()
	require.NoError(t, err)
	assert.NotEqual(t, kp.SecretKey, other.SecretKey)
}

func TestRestoreKeyPair(t *testing.T) {
	kp, err := GenKeyPair()
	require.NoError(t, err)

	restored, err := RestoreKeyPair(kp.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, restored.PublicKey)

	_, err = RestoreKeyPair("deadbeef")
	assert.Error(t, err, "seed must be exactly 32 bytes")
	_, err = RestoreKeyPair("zz")
	assert.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	kp, err := GenKeyPair()
	require.NoError(t, err)

	msg := `{"payload":{"exec":{"code":"(+ 1 2)"}}}`
	hash, sig, err := Sign(msg, kp.SecretKey)
	require.NoError(t, err)

	assert.Equal(t, Base64URLHash(HashBin(msg)), hash, "the signed hash is the request key")
	assert.True(t, Verify(msg, kp.PublicKey, sig))
	assert.False(t, Verify(msg+" ", kp.PublicKey, sig))
	assert.False(t, Verify(msg, kp.PublicKey, "00"))

	other, err := GenKeyPair()
	require.NoError(t, err)
	assert.False(t, Verify(msg, other.PublicKey, sig))
}

func TestSignRejectsBadSecret(t *testing.T) {
	_, _, err := Sign("msg", "")
	assert.Error(t, err)
	_, _, err = Sign("msg", "abcd")
	assert.Error(t, err)
}
