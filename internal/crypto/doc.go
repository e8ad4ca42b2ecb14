// Package crypto provides cryptographic operations for secure-vault.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the master password via PBKDF2
//   - 12-byte random nonce per encryption operation
//   - Authenticated encryption prevents tampering
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt (stored unencrypted)
//   - 100,000 iterations by default (configurable via settings)
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
