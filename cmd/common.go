package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
	"github.com/dark-dev2475/secure--vault/internal/logging"
	"github.com/dark-dev2475/secure--vault/internal/security"
	"github.com/dark-dev2475/secure--vault/internal/storage"
	"github.com/dark-dev2475/secure--vault/internal/vault"
)

// PasswordEnvVar lets scripts supply the master password non-interactively.
const PasswordEnvVar = "SECUREVAULT_PASSWORD"

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm() ([]byte, error) {
	password1, err := ReadPassword("Enter master password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm master password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, fmt.Errorf("passwords do not match")
	}

	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// GetPasswordFromEnv reads the master password from the environment,
// returning nil when unset.
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnvVar)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, []byte(password))
	return result
}

// GetPassword retrieves the password from environment or prompts the user.
// The caller is responsible for calling crypto.ClearBytes on the result.
func GetPassword(prompt string) ([]byte, error) {
	if password := GetPasswordFromEnv(); password != nil {
		return password, nil
	}
	return ReadPassword(prompt)
}

// openStore resolves the vault path and opens the bbolt store.
func openStore(dbPath string) (*storage.BoltStore, error) {
	if dbPath == "" {
		var err error
		dbPath, err = security.DefaultVaultPath()
		if err != nil {
			return nil, err
		}
	}
	path, err := security.PrepareVaultPath(dbPath)
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// newLogger builds the structured logger wired into the vault manager.
// User-facing output stays on plain stdout prints; the logger carries
// warnings such as skipped corrupt records to stderr.
func newLogger() logging.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	return logging.NewSlogLogger(slog.New(handler))
}

// readLine reads one trimmed line from the scanner, reporting EOF as ok=false.
func readLine(scanner *bufio.Scanner, prompt string) (string, bool) {
	fmt.Print(prompt)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// HandleError prints common errors consistently and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'secure-vault init' first\n")
	case errors.Is(err, vault.ErrAlreadyInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault already initialized\n")
		fmt.Fprintf(os.Stderr, "Use 'secure-vault open' to work with it\n")
	case errors.Is(err, vault.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: incorrect password\n")
	case errors.Is(err, vault.ErrVaultLocked):
		fmt.Fprintf(os.Stderr, "Error: vault is locked\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
