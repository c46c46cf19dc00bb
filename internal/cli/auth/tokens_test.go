package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// storageContract exercises the Storage semantics shared by every backend
func storageContract(t *testing.T, storage Storage) {
	t.Helper()

	value, err := storage.Get(AccessTokenKey)
	require.NoError(t, err)
	assert.Empty(t, value, "missing key should read as empty")

	require.NoError(t, storage.Set(AccessTokenKey, "first"))
	require.NoError(t, storage.Set(AccessTokenKey, "second"))

	value, err = storage.Get(AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	require.NoError(t, storage.Remove(AccessTokenKey))
	require.NoError(t, storage.Remove(AccessTokenKey), "removing twice should be a no-op")

	value, err = storage.Get(AccessTokenKey)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestMemoryStorage(t *testing.T) {
	storageContract(t, NewMemoryStorage())
}

func TestKeyringStorage(t *testing.T) {
	keyring.MockInit()
	storageContract(t, NewKeyringStorage("https://api.example.com"))
}

func TestKeyringStorage_Namespaces(t *testing.T) {
	keyring.MockInit()

	prod := NewKeyringStorage("https://api.example.com")
	staging := NewKeyringStorage("https://staging.example.com")

	require.NoError(t, prod.Set(AccessTokenKey, "prod-token"))

	value, err := staging.Get(AccessTokenKey)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestKeyringStorage_BackendError(t *testing.T) {
	keyring.MockInitWithError(errors.New("keychain locked"))
	defer keyring.MockInit()

	storage := NewKeyringStorage("https://api.example.com")

	_, err := storage.Get(AccessTokenKey)
	require.ErrorContains(t, err, "failed to load access_token")

	err = storage.Set(AccessTokenKey, "x")
	require.ErrorContains(t, err, "keychain locked")
}

func TestSQLiteStorage(t *testing.T) {
	db, err := OpenSQLiteDB(filepath.Join(t.TempDir(), "nested", "session.db"))
	require.NoError(t, err)

	storageContract(t, NewSQLiteStorage(db, "https://api.example.com"))
}

func TestSQLiteStorage_Namespaces(t *testing.T) {
	db, err := OpenSQLiteDB(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)

	prod := NewSQLiteStorage(db, "prod")
	staging := NewSQLiteStorage(db, "staging")

	require.NoError(t, prod.Set(RefreshTokenKey, "prod-refresh"))
	require.NoError(t, staging.Set(RefreshTokenKey, "staging-refresh"))

	value, err := prod.Get(RefreshTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "prod-refresh", value)

	var count int64
	require.NoError(t, db.Model(&StoredValue{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewTokenStore(storage)

	require.NoError(t, store.Save(Session{AccessToken: "access-1", RefreshToken: "refresh-1"}))

	session, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{AccessToken: "access-1", RefreshToken: "refresh-1"}, session)
	assert.True(t, session.HasAccessToken())
	assert.True(t, session.HasRefreshToken())

	// Saving without a refresh token drops the stored one
	require.NoError(t, store.Save(Session{AccessToken: "access-2"}))

	refresh, err := storage.Get(RefreshTokenKey)
	require.NoError(t, err)
	assert.Empty(t, refresh)
}

func TestTokenStore_AccessTokenOnly(t *testing.T) {
	store := NewTokenStore(NewMemoryStorage())
	require.NoError(t, store.Save(Session{AccessToken: "a", RefreshToken: "r"}))

	require.NoError(t, store.SaveAccessToken("b"))
	require.Error(t, store.SaveAccessToken(""))

	session, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{AccessToken: "b", RefreshToken: "r"}, session)

	require.NoError(t, store.RemoveAccessToken())
	access, err := store.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestTokenStore_Clear(t *testing.T) {
	store := NewTokenStore(NewMemoryStorage())
	require.NoError(t, store.Save(Session{AccessToken: "a", RefreshToken: "r"}))

	require.NoError(t, store.Clear())

	session, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{}, session)
}

func TestDescribeToken(t *testing.T) {
	issued := time.Now().Add(-time.Minute).Truncate(time.Second)
	expires := issued.Add(15 * time.Minute)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-123",
		"email": "jane@example.com",
		"iat":   issued.Unix(),
		"exp":   expires.Unix(),
	})
	signed, err := token.SignedString([]byte("not-known-to-the-client"))
	require.NoError(t, err)

	info, err := DescribeToken(signed)
	require.NoError(t, err)

	assert.Equal(t, "user-123", info.Subject)
	assert.Equal(t, "jane@example.com", info.Email)
	assert.True(t, info.IssuedAt.Equal(issued))
	assert.True(t, info.ExpiresAt.Equal(expires))
	assert.False(t, info.Expired(issued))
	assert.True(t, info.Expired(expires.Add(time.Second)))
}

func TestDescribeToken_Opaque(t *testing.T) {
	_, err := DescribeToken("opaque-token")
	require.ErrorContains(t, err, "failed to decode token")

	assert.False(t, TokenInfo{}.Expired(time.Now()), "tokens without exp never report expired")
}
