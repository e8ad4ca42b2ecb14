// Package security validates the vault database location before anything
// secret is written to it.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const dirPermSecure = 0700 // vault directory: owner only

var (
	ErrEmptyPath = errors.New("empty path not allowed")
	ErrIsDir     = errors.New("vault path is a directory")
)

// PrepareVaultPath resolves a vault database path and makes sure its
// parent directory exists with owner-only permissions. It returns the
// absolute path to use.
func PrepareVaultPath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDir, absPath)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, dirPermSecure); err != nil {
		return "", fmt.Errorf("failed to create vault directory: %w", err)
	}

	// Tighten a pre-existing directory that is readable by others.
	if info, err := os.Stat(dir); err == nil {
		if info.Mode().Perm()&0077 != 0 {
			if err := os.Chmod(dir, dirPermSecure); err != nil {
				return "", fmt.Errorf("failed to restrict vault directory: %w", err)
			}
		}
	}

	return absPath, nil
}

// DefaultVaultPath returns the standard vault location under the user
// config directory.
func DefaultVaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(configDir, "secure-vault", "vault.db"), nil
}
