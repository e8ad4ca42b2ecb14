package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 16     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	NonceSize    = 12     // GCM nonce size
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 100000 // Default PBKDF2 iterations
)

var (
	ErrInvalidParameter = errors.New("invalid crypto parameter")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Envelope is one encrypted payload: a fresh random nonce and the
// AES-GCM ciphertext with the authentication tag appended.
type Envelope struct {
	Nonce      []byte
	Ciphertext []byte
}

// NewSalt generates a random salt for key derivation
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives an AES-256 key from a password using PBKDF2-HMAC-SHA256.
// Deterministic: the same password, salt and iteration count always produce
// the same key, which is how unlock re-derives the key without storing it.
func DeriveKey(password, salt []byte, iterations int) ([]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrInvalidParameter)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive", ErrInvalidParameter)
	}
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New), nil
}

// Encrypt encrypts plaintext using AES-256-GCM with a fresh random nonce.
// Nonce reuse under the same key breaks GCM, so the nonce is always drawn
// from crypto/rand, never from a counter.
func Encrypt(key, plaintext []byte) (Envelope, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return Envelope{}, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return Envelope{
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Decrypt decrypts an envelope using AES-256-GCM. A wrong key and
// tampered or corrupted data are indistinguishable: both return
// ErrDecryptionFailed.
func Decrypt(key []byte, env Envelope) ([]byte, error) {
	if len(env.Nonce) != NonceSize || len(env.Ciphertext) < TagSize {
		return nil, ErrDecryptionFailed
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes", ErrInvalidParameter, KeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
