package storage

import (
	"context"
	"errors"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
)

var (
	ErrNotInitialized = errors.New("store not initialized")
)

// Record is the unit of persisted credential data. URL and Username are
// stored in plaintext so lookup and search work without decryption; the
// full credential (password, notes, timestamps) lives only inside the
// encrypted envelope. A plaintext credential never touches the store.
type Record struct {
	ID       string
	URL      string
	Username string
	Envelope crypto.Envelope
}

// Settings is a plain (unencrypted) record of non-secret user preferences.
// The vault manager reads only the auto-lock and iteration values; the
// rest belongs to the surrounding application.
type Settings struct {
	ID              string `json:"id"`
	AutoLockEnabled bool   `json:"autoLockEnabled"`
	AutoLockMinutes int    `json:"autoLockMinutes"`
	KDFIterations   int    `json:"kdfIterations"`
	Theme           string `json:"theme"`
	AutofillEnabled bool   `json:"autofillEnabled"`
}

// SettingsID is the fixed id of the single settings record.
const SettingsID = "settings"

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		ID:              SettingsID,
		AutoLockEnabled: true,
		AutoLockMinutes: 15,
		KDFIterations:   crypto.DefaultIters,
		Theme:           "system",
		AutofillEnabled: true,
	}
}

// Store is the persistent key-value contract the vault manager consumes.
// Implementations must be safe for interleaved reads and writes to
// different ids; concurrent writes to the same id are last-write-wins.
type Store interface {
	// Put stores a record, overwriting any existing record with the same id.
	Put(ctx context.Context, rec Record) error
	// Get returns the record with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*Record, error)
	// GetAll returns all records in unspecified order.
	GetAll(ctx context.Context) ([]Record, error)
	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// GetSalt returns the stored KDF salt, or nil if none was stored yet.
	GetSalt(ctx context.Context) ([]byte, error)
	// SetSalt stores the KDF salt in plaintext. The salt is not secret;
	// it only defeats precomputation attacks.
	SetSalt(ctx context.Context, salt []byte) error

	// GetSettings returns the settings record with the given id, or nil.
	GetSettings(ctx context.Context, id string) (*Settings, error)
	// SaveSettings stores a settings record keyed by its ID field.
	SaveSettings(ctx context.Context, s Settings) error
}
