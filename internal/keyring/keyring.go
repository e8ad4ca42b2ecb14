// Package keyring caches the master password in the OS keyring
// (Keychain, Secret Service, Credential Manager), keyed by vault ID so
// multiple vaults on one machine do not collide.
package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "secure-vault"

// SavePassword stores a master password in the OS keyring
func SavePassword(vaultID string, password string) error {
	return keyring.Set(serviceName, vaultID, password)
}

// GetPassword retrieves a master password from the OS keyring
func GetPassword(vaultID string) (string, error) {
	return keyring.Get(serviceName, vaultID)
}

// DeletePassword removes a master password from the OS keyring
func DeletePassword(vaultID string) error {
	return keyring.Delete(serviceName, vaultID)
}

// HasPassword checks if a master password is stored in the keyring
func HasPassword(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}
