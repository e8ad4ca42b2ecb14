package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
	"github.com/dark-dev2475/secure--vault/internal/keyring"
	"github.com/dark-dev2475/secure--vault/internal/storage"
	"github.com/dark-dev2475/secure--vault/internal/vault"
)

// Status shows vault information without requiring a password: whether
// the vault is initialized, how many records it holds, and the KDF and
// auto-lock configuration.
func Status(ctx context.Context, dbPath string) {
	store, err := openStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	m := vault.New(store)
	initialized, err := m.IsInitialized(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Vault:       %s\n", store.Path())
	if !initialized {
		fmt.Println("State:       not initialized")
		return
	}
	fmt.Println("State:       initialized (locked)")

	count, err := store.Count()
	if err == nil {
		// The metadata record is not a credential.
		if count > 0 {
			count--
		}
		fmt.Printf("Credentials: %d\n", count)
	}

	if modified, err := store.GetModified(); err == nil {
		fmt.Printf("Modified:    %s\n", modified.Format("2006-01-02 15:04:05"))
	}

	iterations := crypto.DefaultIters
	autoLock := "disabled"
	if settings, err := store.GetSettings(ctx, storage.SettingsID); err == nil && settings != nil {
		if settings.KDFIterations > 0 {
			iterations = settings.KDFIterations
		}
		if settings.AutoLockEnabled && settings.AutoLockMinutes > 0 {
			autoLock = fmt.Sprintf("%d min", settings.AutoLockMinutes)
		}
	}
	fmt.Printf("Encryption:  AES-256-GCM, PBKDF2-SHA256 (%d iterations)\n", iterations)
	fmt.Printf("Auto-lock:   %s\n", autoLock)

	if vaultID, err := store.GetVaultID(); err == nil && vaultID != "" {
		if keyring.HasPassword(vaultID) {
			fmt.Println("Keyring:     password stored")
		} else {
			fmt.Println("Keyring:     no password stored")
		}
	}

	if info, err := os.Stat(store.Path()); err == nil {
		fmt.Printf("Size:        %d KB\n", info.Size()/1024)
	}
}

// Compact reclaims disk space left behind by deleted credentials.
func Compact(dbPath string) {
	store, err := openStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Vault compacted")
}
