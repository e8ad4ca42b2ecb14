package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("0123456789abcdef")

	key1, err := DeriveKey(password, salt, DefaultIters)
	require.NoError(t, err)
	key2, err := DeriveKey(password, salt, DefaultIters)
	require.NoError(t, err)

	assert.Equal(t, key1, key2)
	assert.Len(t, key1, KeySize)
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1, err := DeriveKey(password, []byte("salt-1-is-16-byt"), 1000)
	require.NoError(t, err)
	key2, err := DeriveKey(password, []byte("salt-2-is-16-byt"), 1000)
	require.NoError(t, err)
	key3, err := DeriveKey([]byte("other-password"), []byte("salt-1-is-16-byt"), 1000)
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
	assert.NotEqual(t, key1, key3)
}

func TestDeriveKey_InvalidParameters(t *testing.T) {
	_, err := DeriveKey([]byte("pw"), nil, DefaultIters)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = DeriveKey([]byte("pw"), []byte("salt"), 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	require.NoError(t, err)

	plaintexts := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte(`{"username":"u","password":"p"}`),
		bytes.Repeat([]byte("x"), 4096),
	}

	for _, pt := range plaintexts {
		env, err := Encrypt(key, pt)
		require.NoError(t, err)
		assert.Len(t, env.Nonce, NonceSize)
		assert.Equal(t, len(pt)+TagSize, len(env.Ciphertext))

		got, err := Decrypt(key, env)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestDecrypt_WrongKeyFailsClosed(t *testing.T) {
	key1, err := GenerateRandom(KeySize)
	require.NoError(t, err)
	key2, err := GenerateRandom(KeySize)
	require.NoError(t, err)

	env, err := Encrypt(key1, []byte("top secret"))
	require.NoError(t, err)

	_, err = Decrypt(key2, env)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	require.NoError(t, err)

	env, err := Encrypt(key, []byte("top secret"))
	require.NoError(t, err)

	env.Ciphertext[0] ^= 0xff
	_, err = Decrypt(key, env)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_TruncatedEnvelope(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	require.NoError(t, err)

	_, err = Decrypt(key, Envelope{Nonce: []byte("short"), Ciphertext: []byte("x")})
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncrypt_NonceUniqueness(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	require.NoError(t, err)

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		env, err := Encrypt(key, []byte("payload"))
		require.NoError(t, err)
		s := string(env.Nonce)
		require.False(t, seen[s], "nonce repeated after %d encryptions", i)
		seen[s] = true
	}
}

func TestEncrypt_InvalidKeyLength(t *testing.T) {
	_, err := Encrypt([]byte("short"), []byte("data"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestClearBytes(t *testing.T) {
	b := []byte("sensitive")
	ClearBytes(b)
	assert.Equal(t, make([]byte, len("sensitive")), b)
}
