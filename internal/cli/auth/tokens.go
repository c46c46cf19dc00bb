package auth

import (
	"errors"
	"fmt"
)

// Session is the access/refresh token pair held by a client.
// An empty string means no token is held.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// HasAccessToken reports whether an access token is held
func (s Session) HasAccessToken() bool {
	return s.AccessToken != ""
}

// HasRefreshToken reports whether a refresh token is held
func (s Session) HasRefreshToken() bool {
	return s.RefreshToken != ""
}

// TokenStore defines the interface for session persistence.
// This allows us to swap the backing storage in tests.
type TokenStore interface {
	Load() (Session, error)
	Save(session Session) error
	AccessToken() (string, error)
	SaveAccessToken(token string) error
	RemoveAccessToken() error
	Clear() error
}

// StorageTokenStore implements TokenStore over a Storage
type StorageTokenStore struct {
	storage Storage
}

// NewTokenStore creates a token store over the given storage
func NewTokenStore(storage Storage) *StorageTokenStore {
	return &StorageTokenStore{storage: storage}
}

// Load reads both tokens
func (t *StorageTokenStore) Load() (Session, error) {
	access, err := t.storage.Get(AccessTokenKey)
	if err != nil {
		return Session{}, err
	}

	refresh, err := t.storage.Get(RefreshTokenKey)
	if err != nil {
		return Session{}, err
	}

	return Session{AccessToken: access, RefreshToken: refresh}, nil
}

// Save persists the pair. A missing token removes the stored one.
func (t *StorageTokenStore) Save(session Session) error {
	if err := t.put(AccessTokenKey, session.AccessToken); err != nil {
		return err
	}
	return t.put(RefreshTokenKey, session.RefreshToken)
}

// AccessToken reads the stored access token
func (t *StorageTokenStore) AccessToken() (string, error) {
	return t.storage.Get(AccessTokenKey)
}

// SaveAccessToken replaces only the stored access token
func (t *StorageTokenStore) SaveAccessToken(token string) error {
	if token == "" {
		return fmt.Errorf("access token is empty")
	}
	return t.storage.Set(AccessTokenKey, token)
}

// RemoveAccessToken removes only the stored access token
func (t *StorageTokenStore) RemoveAccessToken() error {
	return t.storage.Remove(AccessTokenKey)
}

// Clear removes both tokens. Both removals are attempted.
func (t *StorageTokenStore) Clear() error {
	return errors.Join(
		t.storage.Remove(AccessTokenKey),
		t.storage.Remove(RefreshTokenKey),
	)
}

func (t *StorageTokenStore) put(key, value string) error {
	if value == "" {
		return t.storage.Remove(key)
	}
	return t.storage.Set(key, value)
}
