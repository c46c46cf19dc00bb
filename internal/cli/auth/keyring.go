package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "finboard-cli"
)

// KeyringStorage persists values in the OS keychain/credential manager.
// Keys are namespaced so several servers can hold sessions at once.
type KeyringStorage struct {
	namespace string
}

// NewKeyringStorage returns keyring-backed storage for the given namespace (usually the API URL)
func NewKeyringStorage(namespace string) *KeyringStorage {
	return &KeyringStorage{namespace: namespace}
}

// getKeyringKey returns a unique keyring entry name per namespace and key
func (k *KeyringStorage) getKeyringKey(key string) string {
	return fmt.Sprintf("%s-%s", key, k.namespace)
}

// Get retrieves a value from the keychain
func (k *KeyringStorage) Get(key string) (string, error) {
	value, err := keyring.Get(service, k.getKeyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value in the keychain
func (k *KeyringStorage) Set(key, value string) error {
	if err := keyring.Set(service, k.getKeyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Remove deletes a value from the keychain
func (k *KeyringStorage) Remove(key string) error {
	if err := keyring.Delete(service, k.getKeyringKey(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
