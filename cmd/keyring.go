package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
	"github.com/dark-dev2475/secure--vault/internal/keyring"
	"github.com/dark-dev2475/secure--vault/internal/vault"
)

// KeyringSave verifies the master password and stores it in the OS keyring.
func KeyringSave(ctx context.Context, dbPath string) {
	store, err := openStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	password, err := ReadPassword("Enter master password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	// Never store an unverified password.
	m := vault.New(store)
	if err := m.Unlock(ctx, password, 0); err != nil {
		HandleError(err)
	}
	m.Lock()

	vaultID, err := store.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}
	if err := keyring.SavePassword(vaultID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Password saved to OS keyring")
}

// KeyringDelete removes the stored master password from the OS keyring.
func KeyringDelete(dbPath string) {
	store, err := openStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	vaultID, err := store.GetVaultID()
	if err != nil || vaultID == "" {
		fmt.Println("No password stored in keyring")
		return
	}
	if err := keyring.DeletePassword(vaultID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}
	fmt.Println("✓ Password removed from OS keyring")
}

// KeyringStatus reports whether a password is stored for this vault.
func KeyringStatus(dbPath string) {
	store, err := openStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	vaultID, err := store.GetVaultID()
	if err == nil && vaultID != "" && keyring.HasPassword(vaultID) {
		fmt.Println("Password stored in OS keyring")
		return
	}
	fmt.Println("No password stored in keyring")
}

// keyringPassword returns the cached master password for the store's
// vault, or nil when the keyring has nothing usable.
func keyringPassword(store vaultIDSource) []byte {
	vaultID, err := store.GetVaultID()
	if err != nil || vaultID == "" {
		return nil
	}
	password, err := keyring.GetPassword(vaultID)
	if err != nil {
		return nil
	}
	return []byte(password)
}

type vaultIDSource interface {
	GetVaultID() (string, error)
}
