package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
	"github.com/dark-dev2475/secure--vault/internal/storage"
	"github.com/dark-dev2475/secure--vault/internal/vault"
)

// Init creates a new vault database and sets its master password.
func Init(ctx context.Context, dbPath string) {
	store, err := openStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	m := vault.New(store, vault.WithLogger(newLogger()))

	initialized, err := m.IsInitialized(ctx)
	if err != nil {
		HandleError(err)
	}
	if initialized {
		HandleError(vault.ErrAlreadyInitialized)
	}

	var password []byte
	if password = GetPasswordFromEnv(); password == nil {
		password, err = ReadPasswordConfirm()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	defer crypto.ClearBytes(password)

	if err := store.SaveSettings(ctx, storage.DefaultSettings()); err != nil {
		HandleError(err)
	}
	if err := m.Initialize(ctx, password); err != nil {
		HandleError(err)
	}
	m.Lock()

	fmt.Printf("✓ Initialized vault at %s\n", store.Path())
	fmt.Println("Use 'secure-vault open' to start a session.")
}
