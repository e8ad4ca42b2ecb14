package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
	"github.com/dark-dev2475/secure--vault/internal/logging"
	"github.com/dark-dev2475/secure--vault/internal/storage"
)

var (
	ErrNotInitialized     = errors.New("vault not initialized")
	ErrAlreadyInitialized = errors.New("vault already initialized")
	ErrWrongPassword      = errors.New("wrong password")
	ErrVaultLocked        = errors.New("vault is locked")
	ErrInitialization     = errors.New("vault initialization failed")
	ErrReservedID         = errors.New("credential id is reserved")
)

// Manager owns the vault state machine: the in-memory master key, the
// locked/unlocked state, credential CRUD and search, master-password
// rotation, and the auto-lock timer.
//
// All operations are serialized by a single mutex, so a lock transition
// can never interleave with the middle of a multi-step operation such as
// a password rotation.
type Manager struct {
	store storage.Store
	log   logging.Logger

	mu          sync.Mutex
	key         []byte // nil while locked
	autoLock    *time.Timer
	autoLockDur time.Duration
	autoLockGen uint64
	onAutoLock  func()
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger wires a structured logger. The default discards everything.
func WithLogger(log logging.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithAutoLockNotify registers a callback invoked (outside the manager
// lock) after the auto-lock timer locks the vault.
func WithAutoLockNotify(fn func()) Option {
	return func(m *Manager) { m.onAutoLock = fn }
}

// New creates a locked manager over the given store.
func New(store storage.Store, opts ...Option) *Manager {
	m := &Manager{store: store, log: logging.NopLogger{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsInitialized reports whether the vault has been set up. The metadata
// record's presence is the ground truth; a stray salt without metadata
// (from an interrupted init) does not count.
func (m *Manager) IsInitialized(ctx context.Context) (bool, error) {
	rec, err := m.store.Get(ctx, MetadataID)
	if err != nil {
		return false, fmt.Errorf("failed to check metadata: %w", err)
	}
	return rec != nil, nil
}

// Initialize creates a new vault: fresh salt, key derived from the
// password, encrypted metadata record. The metadata is written last so a
// failure cannot leave a vault that looks initialized but is unreadable.
// On success the vault is unlocked; no auto-lock timer is armed.
func (m *Manager) Initialize(ctx context.Context, password []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	initialized, err := m.IsInitialized(ctx)
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	if err := m.store.SetSalt(ctx, salt); err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	iterations, err := m.iterations(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	key, err := crypto.DeriveKey(password, salt, iterations)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	meta := NewMetadata()
	if err := m.putMetadata(ctx, key, meta); err != nil {
		crypto.ClearBytes(key)
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	m.setKeyLocked(key)
	m.log.Info(ctx, "vault initialized")
	return nil
}

// Unlock derives a candidate key from the password and verifies it by
// decrypting the metadata record. Failure to decrypt and failure to parse
// the decrypted bytes are deliberately indistinguishable: both mean wrong
// password (or a tampered store, which must look the same to the caller).
//
// On success the key is held in memory, lastAccessed is updated
// best-effort, and an auto-lock timer is armed when autoLockAfter > 0.
func (m *Manager) Unlock(ctx context.Context, password []byte, autoLockAfter time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	meta, key, err := m.authenticate(ctx, password)
	if err != nil {
		return err
	}

	m.setKeyLocked(key)

	// Best-effort access stamp; its failure does not invalidate the unlock.
	meta.LastAccessed = time.Now().UTC()
	if err := m.putMetadata(ctx, key, meta); err != nil {
		m.log.Warn(ctx, "failed to update lastAccessed", "error", err)
	}

	m.armAutoLockLocked(autoLockAfter)
	m.log.Info(ctx, "vault unlocked")
	return nil
}

// authenticate loads salt and metadata and verifies the password against
// them. It returns the parsed metadata and the derived key; the caller
// owns the key. The manager state is untouched on failure.
func (m *Manager) authenticate(ctx context.Context, password []byte) (Metadata, []byte, error) {
	salt, err := m.store.GetSalt(ctx)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("failed to load salt: %w", err)
	}
	if salt == nil {
		return Metadata{}, nil, ErrNotInitialized
	}

	rec, err := m.store.Get(ctx, MetadataID)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	if rec == nil {
		return Metadata{}, nil, ErrNotInitialized
	}

	iterations, err := m.iterations(ctx)
	if err != nil {
		return Metadata{}, nil, err
	}
	key, err := crypto.DeriveKey(password, salt, iterations)
	if err != nil {
		return Metadata{}, nil, err
	}

	plaintext, err := crypto.Decrypt(key, rec.Envelope)
	if err != nil {
		crypto.ClearBytes(key)
		return Metadata{}, nil, ErrWrongPassword
	}
	var meta Metadata
	if err := json.Unmarshal(plaintext, &meta); err != nil {
		crypto.ClearBytes(key)
		crypto.ClearBytes(plaintext)
		return Metadata{}, nil, ErrWrongPassword
	}
	crypto.ClearBytes(plaintext)
	return meta, key, nil
}

// Lock discards the in-memory key and cancels any pending auto-lock
// timer. Locking an already locked vault is a no-op.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockLocked()
}

func (m *Manager) lockLocked() {
	if m.key != nil {
		crypto.ClearBytes(m.key)
		m.key = nil
	}
	m.autoLockGen++
	if m.autoLock != nil {
		m.autoLock.Stop()
		m.autoLock = nil
	}
	m.autoLockDur = 0
}

// IsLocked reports whether the vault currently holds no key.
func (m *Manager) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key == nil
}

// ResetActivity cancel-and-rearms the auto-lock timer in one critical
// section. Call it on user activity; a stale timer that already lost the
// race fires as a no-op.
func (m *Manager) ResetActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil || m.autoLockDur <= 0 {
		return
	}
	m.armAutoLockLocked(m.autoLockDur)
}

func (m *Manager) armAutoLockLocked(d time.Duration) {
	m.autoLockGen++
	if m.autoLock != nil {
		m.autoLock.Stop()
		m.autoLock = nil
	}
	m.autoLockDur = d
	if d <= 0 {
		return
	}
	gen := m.autoLockGen
	m.autoLock = time.AfterFunc(d, func() { m.autoLockFired(gen) })
}

func (m *Manager) autoLockFired(gen uint64) {
	m.mu.Lock()
	if gen != m.autoLockGen || m.key == nil {
		m.mu.Unlock()
		return
	}
	m.lockLocked()
	notify := m.onAutoLock
	m.mu.Unlock()

	m.log.Info(context.Background(), "vault auto-locked")
	if notify != nil {
		notify()
	}
}

func (m *Manager) setKeyLocked(key []byte) {
	if m.key != nil {
		crypto.ClearBytes(m.key)
	}
	m.key = key
}

func (m *Manager) iterations(ctx context.Context) (int, error) {
	settings, err := m.store.GetSettings(ctx, storage.SettingsID)
	if err != nil {
		return 0, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil || settings.KDFIterations <= 0 {
		return crypto.DefaultIters, nil
	}
	return settings.KDFIterations, nil
}

// Add encrypts and stores a credential, assigning an id and timestamps
// when absent, and returns the id.
func (m *Manager) Add(ctx context.Context, cred Credential) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil {
		return "", ErrVaultLocked
	}

	if cred.ID == MetadataID {
		return "", ErrReservedID
	}
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	if err := m.putCredential(ctx, cred); err != nil {
		return "", err
	}
	return cred.ID, nil
}

// Get returns the credential with the given id, or nil if absent.
// A record that exists but cannot be decrypted is an error, distinct
// from absence.
func (m *Manager) Get(ctx context.Context, id string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil {
		return nil, ErrVaultLocked
	}
	if id == MetadataID {
		return nil, nil
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	cred, err := m.decryptCredential(*rec)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// List decrypts every stored credential. A record that fails to decrypt
// or parse is logged and excluded rather than failing the whole listing;
// records are independently encrypted, so one corrupt envelope cannot
// block access to the rest.
func (m *Manager) List(ctx context.Context) ([]Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(ctx)
}

func (m *Manager) listLocked(ctx context.Context) ([]Credential, error) {
	if m.key == nil {
		return nil, ErrVaultLocked
	}

	records, err := m.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	creds := make([]Credential, 0, len(records))
	for _, rec := range records {
		if rec.ID == MetadataID {
			continue
		}
		cred, err := m.decryptCredential(rec)
		if err != nil {
			m.log.Warn(ctx, "skipping unreadable credential", "id", rec.ID, "error", err)
			continue
		}
		creds = append(creds, cred)
	}
	return creds, nil
}

// Update loads, decrypts, patches, re-encrypts and stores a credential.
// It returns false (and no error) when the id is absent.
func (m *Manager) Update(ctx context.Context, id string, patch Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil {
		return false, ErrVaultLocked
	}
	if id == MetadataID {
		return false, nil
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to load credential: %w", err)
	}
	if rec == nil {
		return false, nil
	}

	cred, err := m.decryptCredential(*rec)
	if err != nil {
		return false, err
	}
	patch.apply(&cred)
	cred.UpdatedAt = time.Now().UTC()

	if err := m.putCredential(ctx, cred); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a credential. It returns false when the id was already
// absent; deleting twice is not an error.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil {
		return false, ErrVaultLocked
	}
	if id == MetadataID {
		return false, nil
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to load credential: %w", err)
	}
	if rec == nil {
		return false, nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete credential: %w", err)
	}
	return true, nil
}

// FindByURL returns credentials whose URL exactly matches the query or
// contains it, or is contained by it. The loose two-way substring match
// is deliberate: it tolerates scheme, path and subdomain variation
// ("https://example.com/login" matches a query of "example.com" and vice
// versa) at the cost of occasional over-matching.
func (m *Manager) FindByURL(ctx context.Context, url string) ([]Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if url == "" {
		if m.key == nil {
			return nil, ErrVaultLocked
		}
		return nil, nil
	}

	creds, err := m.listLocked(ctx)
	if err != nil {
		return nil, err
	}

	var matched []Credential
	for _, cred := range creds {
		if cred.URL == "" {
			continue
		}
		if cred.URL == url || strings.Contains(cred.URL, url) || strings.Contains(url, cred.URL) {
			matched = append(matched, cred)
		}
	}
	return matched, nil
}

// ChangeMasterPassword re-authenticates with the current password,
// decrypts every record, derives a new key from the new password and a
// fresh salt, re-encrypts everything in memory, and only then writes the
// new salt, records and metadata. No write happens before every
// re-encryption has succeeded, so a failure up to that point leaves the
// store untouched. A crash inside the final write loop can still leave a
// mixed-key store; the Store contract has no cross-call transaction to
// close that window.
//
// On success the vault is unlocked under the new key.
func (m *Manager) ChangeMasterPassword(ctx context.Context, current, newPassword []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	meta, curKey, err := m.authenticate(ctx, current)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(curKey)

	records, err := m.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	// Decrypt everything before touching the store.
	type pending struct {
		rec       storage.Record
		plaintext []byte
	}
	var all []pending
	defer func() {
		for i := range all {
			crypto.ClearBytes(all[i].plaintext)
		}
	}()
	for _, rec := range records {
		if rec.ID == MetadataID {
			continue
		}
		plaintext, err := crypto.Decrypt(curKey, rec.Envelope)
		if err != nil {
			return fmt.Errorf("credential %s: %w", rec.ID, err)
		}
		all = append(all, pending{rec: rec, plaintext: plaintext})
	}

	newSalt, err := crypto.NewSalt()
	if err != nil {
		return err
	}
	iterations, err := m.iterations(ctx)
	if err != nil {
		return err
	}
	newKey, err := crypto.DeriveKey(newPassword, newSalt, iterations)
	if err != nil {
		return err
	}

	// Re-encrypt everything in memory; first write happens only after
	// every Seal succeeded.
	for i := range all {
		env, err := crypto.Encrypt(newKey, all[i].plaintext)
		if err != nil {
			crypto.ClearBytes(newKey)
			return fmt.Errorf("credential %s: %w", all[i].rec.ID, err)
		}
		all[i].rec.Envelope = env
	}
	meta.LastModified = time.Now().UTC()
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		crypto.ClearBytes(newKey)
		return err
	}
	metaEnv, err := crypto.Encrypt(newKey, metaJSON)
	if err != nil {
		crypto.ClearBytes(newKey)
		return err
	}

	// Commit.
	if err := m.store.SetSalt(ctx, newSalt); err != nil {
		crypto.ClearBytes(newKey)
		return fmt.Errorf("failed to store new salt: %w", err)
	}
	for i := range all {
		if err := m.store.Put(ctx, all[i].rec); err != nil {
			crypto.ClearBytes(newKey)
			return fmt.Errorf("failed to rewrite credential %s: %w", all[i].rec.ID, err)
		}
	}
	if err := m.store.Put(ctx, storage.Record{ID: MetadataID, Envelope: metaEnv}); err != nil {
		crypto.ClearBytes(newKey)
		return fmt.Errorf("failed to rewrite metadata: %w", err)
	}

	m.setKeyLocked(newKey)
	m.log.Info(ctx, "master password changed", "records", len(all))
	return nil
}

func (m *Manager) putCredential(ctx context.Context, cred Credential) error {
	plaintext, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(plaintext)

	env, err := crypto.Encrypt(m.key, plaintext)
	if err != nil {
		return err
	}
	err = m.store.Put(ctx, storage.Record{
		ID:       cred.ID,
		URL:      cred.URL,
		Username: cred.Username,
		Envelope: env,
	})
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (m *Manager) decryptCredential(rec storage.Record) (Credential, error) {
	plaintext, err := crypto.Decrypt(m.key, rec.Envelope)
	if err != nil {
		return Credential{}, fmt.Errorf("credential %s: %w", rec.ID, err)
	}
	defer crypto.ClearBytes(plaintext)

	var cred Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		return Credential{}, fmt.Errorf("credential %s: %w", rec.ID, err)
	}
	return cred, nil
}

func (m *Manager) putMetadata(ctx context.Context, key []byte, meta Metadata) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	env, err := crypto.Encrypt(key, metaJSON)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, storage.Record{ID: MetadataID, Envelope: env})
}
