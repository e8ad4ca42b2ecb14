// Package storage provides the persistent store for secure-vault.
//
// The BBolt database uses three buckets:
//   - config: KDF salt, timestamps, vault id, settings (unencrypted)
//   - index: per-record url/username rows (unencrypted, for search)
//   - envelopes: encrypted credential payloads
//
// The unencrypted index lets lookup and URL matching run without the
// master password; everything secret lives only inside envelopes.
//
// Envelope bytes persist as JSON numeric arrays ({"iv":[..],
// "ciphertext":[..]}), not base64, to stay interchangeable with stores
// exported by the original browser extension.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
// MemoryStore implements the same contract for tests.
package storage
