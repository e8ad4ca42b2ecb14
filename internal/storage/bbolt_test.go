package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.vault")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaltRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	salt, err := s.GetSalt(ctx)
	if err != nil {
		t.Fatalf("GetSalt failed: %v", err)
	}
	if salt != nil {
		t.Errorf("Expected no salt in a fresh store, got %x", salt)
	}

	want := []byte("0123456789abcdef")
	if err := s.SetSalt(ctx, want); err != nil {
		t.Fatalf("SetSalt failed: %v", err)
	}

	salt, err = s.GetSalt(ctx)
	if err != nil {
		t.Fatalf("GetSalt failed: %v", err)
	}
	if !bytes.Equal(salt, want) {
		t.Errorf("Salt mismatch: got %x, want %x", salt, want)
	}
}

func TestSetSaltRejectsWrongSize(t *testing.T) {
	s := openTestStore(t)
	if err := s.SetSalt(context.Background(), []byte("short")); err == nil {
		t.Error("Expected error for wrong salt size")
	}
}

func TestRecordCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := Record{
		ID:       "cred-1",
		URL:      "https://example.com",
		Username: "alice",
		Envelope: crypto.Envelope{
			Nonce:      bytes.Repeat([]byte{1}, crypto.NonceSize),
			Ciphertext: []byte("opaque-ciphertext-with-tag"),
		},
	}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "cred-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if got.URL != rec.URL || got.Username != rec.Username {
		t.Errorf("Index row mismatch: got %q/%q", got.URL, got.Username)
	}
	if !bytes.Equal(got.Envelope.Nonce, rec.Envelope.Nonce) ||
		!bytes.Equal(got.Envelope.Ciphertext, rec.Envelope.Ciphertext) {
		t.Error("Envelope mismatch after round trip")
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 record, got %d", len(all))
	}

	if err := s.Delete(ctx, "cred-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err = s.Get(ctx, "cred-1")
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if got != nil {
		t.Error("Record should be gone after delete")
	}

	// Deleting an absent id is not an error
	if err := s.Delete(ctx, "cred-1"); err != nil {
		t.Errorf("Delete of absent id should not fail: %v", err)
	}
}

func TestGetAbsentReturnsNil(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for absent id")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.GetSettings(ctx, SettingsID)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != nil {
		t.Error("Expected no settings in a fresh store")
	}

	want := DefaultSettings()
	want.AutoLockMinutes = 5
	want.Theme = "dark"
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	got, err = s.GetSettings(ctx, SettingsID)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("Settings mismatch: got %+v, want %+v", got, want)
	}
}

func TestVaultID(t *testing.T) {
	s := openTestStore(t)

	id, err := s.GetVaultID()
	if err != nil {
		t.Fatalf("GetVaultID failed: %v", err)
	}
	if id != "" {
		t.Errorf("Expected empty vault id in fresh store, got %q", id)
	}

	id1, err := s.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("GetOrCreateVaultID failed: %v", err)
	}
	if len(id1) != 32 {
		t.Errorf("Expected 32 hex chars, got %q", id1)
	}

	id2, err := s.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("GetOrCreateVaultID failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("Vault id should be stable: %q != %q", id1, id2)
	}
}

func TestCompact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		rec := Record{
			ID: id,
			Envelope: crypto.Envelope{
				Nonce:      bytes.Repeat([]byte{2}, crypto.NonceSize),
				Ciphertext: bytes.Repeat([]byte{3}, 1024),
			},
		}
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := s.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll after compact failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 records after compact, got %d", len(all))
	}
}
