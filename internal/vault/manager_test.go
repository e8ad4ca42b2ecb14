package vault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dark-dev2475/secure--vault/internal/storage"
)

// fastIterations keeps PBKDF2 cheap in tests.
const fastIterations = 1000

func newTestManager(t *testing.T) (*Manager, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	settings := storage.DefaultSettings()
	settings.KDFIterations = fastIterations
	require.NoError(t, store.SaveSettings(context.Background(), settings))
	return New(store), store
}

func initializedManager(t *testing.T, password string) (*Manager, *storage.MemoryStore) {
	t.Helper()
	m, store := newTestManager(t)
	require.NoError(t, m.Initialize(context.Background(), []byte(password)))
	return m, store
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	initialized, err := m.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized)
	assert.True(t, m.IsLocked())

	require.NoError(t, m.Initialize(ctx, []byte("correct horse")))

	initialized, err = m.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
	assert.False(t, m.IsLocked())

	assert.ErrorIs(t, m.Initialize(ctx, []byte("again")), ErrAlreadyInitialized)
}

func TestUnlockBeforeInitialize(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.Unlock(context.Background(), []byte("pw"), 0)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestLockUnlockCycle(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "correct horse")

	m.Lock()
	assert.True(t, m.IsLocked())
	m.Lock() // idempotent
	assert.True(t, m.IsLocked())

	require.NoError(t, m.Unlock(ctx, []byte("correct horse"), 0))
	assert.False(t, m.IsLocked())
}

func TestUnlockWrongPassword(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "correct")
	m.Lock()

	err := m.Unlock(ctx, []byte("wrong"), 0)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.True(t, m.IsLocked())
}

func TestUnlockTamperedMetadata(t *testing.T) {
	ctx := context.Background()
	m, store := initializedManager(t, "correct")
	m.Lock()

	rec, err := store.Get(ctx, MetadataID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	rec.Envelope.Ciphertext[0] ^= 0xff
	require.NoError(t, store.Put(ctx, *rec))

	// Tampered metadata must look exactly like a wrong password.
	err = m.Unlock(ctx, []byte("correct"), 0)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.True(t, m.IsLocked())
}

func TestUnlockUpdatesLastAccessed(t *testing.T) {
	ctx := context.Background()
	m, store := initializedManager(t, "pw")

	before, err := store.Get(ctx, MetadataID)
	require.NoError(t, err)

	m.Lock()
	require.NoError(t, m.Unlock(ctx, []byte("pw"), 0))

	after, err := store.Get(ctx, MetadataID)
	require.NoError(t, err)
	assert.NotEqual(t, before.Envelope.Nonce, after.Envelope.Nonce,
		"metadata should have been re-encrypted on unlock")
}

func TestCredentialRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, store := initializedManager(t, "pw")

	id, err := m.Add(ctx, Credential{
		URL:      "https://a.com",
		Username: "u",
		Password: "plaintext-password-123",
		Name:     "A",
		Notes:    "first account",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u", got.Username)
	assert.Equal(t, "plaintext-password-123", got.Password)
	assert.Equal(t, "first account", got.Notes)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())

	// The plaintext password must not be visible in the store.
	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "https://a.com", rec.URL)
	assert.Equal(t, "u", rec.Username)
	assert.NotContains(t, string(rec.Envelope.Ciphertext), "plaintext-password-123")

	deleted, err := m.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = m.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Second delete is a no-op, not an error.
	deleted, err = m.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGetAbsent(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "pw")

	got, err := m.Get(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLockedStateGuard(t *testing.T) {
	ctx := context.Background()
	m, store := initializedManager(t, "pw")
	m.Lock()

	_, err := m.Add(ctx, Credential{URL: "https://a.com"})
	assert.ErrorIs(t, err, ErrVaultLocked)

	_, err = m.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrVaultLocked)

	_, err = m.List(ctx)
	assert.ErrorIs(t, err, ErrVaultLocked)

	_, err = m.Update(ctx, "x", Patch{})
	assert.ErrorIs(t, err, ErrVaultLocked)

	_, err = m.Delete(ctx, "x")
	assert.ErrorIs(t, err, ErrVaultLocked)

	_, err = m.FindByURL(ctx, "a.com")
	assert.ErrorIs(t, err, ErrVaultLocked)

	// Nothing but the metadata record may exist.
	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpdatePatchSemantics(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "pw")

	id, err := m.Add(ctx, Credential{URL: "https://a.com", Username: "u", Password: "old", Notes: "keep me"})
	require.NoError(t, err)

	newPassword := "new"
	ok, err := m.Update(ctx, id, Patch{Password: &newPassword})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Password)
	assert.Equal(t, "u", got.Username)
	assert.Equal(t, "keep me", got.Notes)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))

	ok, err = m.Update(ctx, "missing", Patch{Password: &newPassword})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListSkipsCorruptRecords(t *testing.T) {
	ctx := context.Background()
	m, store := initializedManager(t, "pw")

	goodID, err := m.Add(ctx, Credential{URL: "https://good.com", Username: "g"})
	require.NoError(t, err)
	badID, err := m.Add(ctx, Credential{URL: "https://bad.com", Username: "b"})
	require.NoError(t, err)

	rec, err := store.Get(ctx, badID)
	require.NoError(t, err)
	rec.Envelope.Ciphertext[0] ^= 0xff
	require.NoError(t, store.Put(ctx, *rec))

	creds, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, goodID, creds[0].ID)
}

func TestFindByURL(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "pw")

	_, err := m.Add(ctx, Credential{URL: "https://example.com/login", Username: "a"})
	require.NoError(t, err)
	_, err = m.Add(ctx, Credential{URL: "https://other.org", Username: "b"})
	require.NoError(t, err)
	_, err = m.Add(ctx, Credential{Username: "no-url"})
	require.NoError(t, err)

	// Query shorter than the stored URL.
	found, err := m.FindByURL(ctx, "https://example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a", found[0].Username)

	// Query longer than the stored URL.
	found, err = m.FindByURL(ctx, "https://other.org/path/deeper")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].Username)

	found, err = m.FindByURL(ctx, "nowhere.net")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = m.FindByURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestChangeMasterPassword(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "old-password")

	id, err := m.Add(ctx, Credential{URL: "https://a.com", Username: "u", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, m.ChangeMasterPassword(ctx, []byte("old-password"), []byte("new-password")))
	assert.False(t, m.IsLocked())

	// Still readable under the swapped-in key without re-unlocking.
	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p", got.Password)

	m.Lock()
	assert.ErrorIs(t, m.Unlock(ctx, []byte("old-password"), 0), ErrWrongPassword)
	require.NoError(t, m.Unlock(ctx, []byte("new-password"), 0))

	got, err = m.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p", got.Password)
}

func TestChangeMasterPasswordWrongCurrent(t *testing.T) {
	ctx := context.Background()
	m, store := initializedManager(t, "right")

	id, err := m.Add(ctx, Credential{URL: "https://a.com", Password: "p"})
	require.NoError(t, err)
	before, err := store.Get(ctx, id)
	require.NoError(t, err)

	err = m.ChangeMasterPassword(ctx, []byte("wrong"), []byte("new"))
	assert.ErrorIs(t, err, ErrWrongPassword)

	// Store untouched.
	after, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Envelope, after.Envelope)
}

func TestChangeMasterPasswordAbortsOnCorruptRecord(t *testing.T) {
	ctx := context.Background()
	m, store := initializedManager(t, "pw")

	goodID, err := m.Add(ctx, Credential{URL: "https://good.com"})
	require.NoError(t, err)
	badID, err := m.Add(ctx, Credential{URL: "https://bad.com"})
	require.NoError(t, err)

	rec, err := store.Get(ctx, badID)
	require.NoError(t, err)
	rec.Envelope.Ciphertext[0] ^= 0xff
	require.NoError(t, store.Put(ctx, *rec))

	goodBefore, err := store.Get(ctx, goodID)
	require.NoError(t, err)

	// Rotation must fail before any write: a record it cannot decrypt
	// would otherwise be silently lost under the new key.
	err = m.ChangeMasterPassword(ctx, []byte("pw"), []byte("new"))
	require.Error(t, err)

	goodAfter, err := store.Get(ctx, goodID)
	require.NoError(t, err)
	assert.Equal(t, goodBefore.Envelope, goodAfter.Envelope)
}

func TestReservedMetadataID(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "pw")

	_, err := m.Add(ctx, Credential{ID: MetadataID})
	assert.ErrorIs(t, err, ErrReservedID)

	got, err := m.Get(ctx, MetadataID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err := m.Delete(ctx, MetadataID)
	require.NoError(t, err)
	assert.False(t, deleted)

	creds, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestTwoIndependentVaults(t *testing.T) {
	ctx := context.Background()
	m1, _ := initializedManager(t, "one")
	m2, _ := initializedManager(t, "two")

	_, err := m1.Add(ctx, Credential{URL: "https://a.com"})
	require.NoError(t, err)

	creds, err := m2.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, creds)

	m1.Lock()
	assert.False(t, m2.IsLocked())
}

func TestAutoLock(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "pw")
	m.Lock()

	fired := make(chan struct{}, 1)
	m.onAutoLock = func() { fired <- struct{}{} }

	require.NoError(t, m.Unlock(ctx, []byte("pw"), 30*time.Millisecond))
	assert.False(t, m.IsLocked())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("auto-lock did not fire")
	}
	assert.True(t, m.IsLocked())
}

func TestAutoLockResetActivity(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "pw")
	m.Lock()

	require.NoError(t, m.Unlock(ctx, []byte("pw"), 80*time.Millisecond))

	// Keep resetting past the original deadline; the vault must stay open.
	for i := 0; i < 4; i++ {
		time.Sleep(40 * time.Millisecond)
		m.ResetActivity()
	}
	assert.False(t, m.IsLocked())

	time.Sleep(200 * time.Millisecond)
	assert.True(t, m.IsLocked())
}

func TestExplicitLockCancelsAutoLock(t *testing.T) {
	ctx := context.Background()
	m, _ := initializedManager(t, "pw")
	m.Lock()

	fired := make(chan struct{}, 1)
	m.onAutoLock = func() { fired <- struct{}{} }

	require.NoError(t, m.Unlock(ctx, []byte("pw"), 30*time.Millisecond))
	m.Lock()

	select {
	case <-fired:
		t.Fatal("auto-lock fired after explicit lock")
	case <-time.After(100 * time.Millisecond):
	}
}
