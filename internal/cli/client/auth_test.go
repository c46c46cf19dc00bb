package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-dev/finboard/internal/cli/auth"
)

func TestLogin_StoresSession(t *testing.T) {
	api, server := newMockAPI(t)
	api.on(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds LoginCredentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, LoginCredentials{Email: "jane@example.com", Password: "Abc123!@"}, creds)

		writeEnvelope(w, http.StatusCreated, http.StatusCreated, "Login successful", map[string]any{
			"user":          map[string]any{"_id": "user-123"},
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
		})
	})

	c, storage := newTestClient(t, server.URL, auth.Session{})

	env, err := c.Login(context.Background(), LoginCredentials{Email: "jane@example.com", Password: "Abc123!@"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Equal(t, "user-123", env.Data.User.ID)

	assert.Equal(t, auth.Session{AccessToken: "access-1", RefreshToken: "refresh-1"}, c.Session())
	stored, err := auth.NewTokenStore(storage).Load()
	require.NoError(t, err)
	assert.Equal(t, c.Session(), stored)
}

func TestLogin_ReplacesSessionWholesale(t *testing.T) {
	api, server := newMockAPI(t)
	api.on(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusCreated, http.StatusCreated, "ok", map[string]any{"access_token": "access-2"})
	})

	c, storage := newTestClient(t, server.URL, auth.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})

	_, err := c.Login(context.Background(), LoginCredentials{Email: "jane@example.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, auth.Session{AccessToken: "access-2"}, c.Session())
	refresh, err := storage.Get(auth.RefreshTokenKey)
	require.NoError(t, err)
	assert.Empty(t, refresh)
}

func TestLogin_FailedEnvelopeKeepsSession(t *testing.T) {
	api, server := newMockAPI(t)
	api.on(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, http.StatusUnauthorized, "Invalid credentials", nil)
	})

	c, _ := newTestClient(t, server.URL, auth.Session{AccessToken: "access-1"})

	env, err := c.Login(context.Background(), LoginCredentials{Email: "jane@example.com", Password: "wrong"})
	require.NoError(t, err)
	assert.Equal(t, "Invalid credentials", env.Message)
	assert.Equal(t, auth.Session{AccessToken: "access-1"}, c.Session())
}

func TestGoogleLogin_ExchangesCode(t *testing.T) {
	api, server := newMockAPI(t)
	api.on(http.MethodPost, "/auth/google/callback", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusCreated, http.StatusCreated, "ok", map[string]any{
			"access_token": "google-access", "refresh_token": "google-refresh",
		})
	})

	c, _ := newTestClient(t, server.URL, auth.Session{})

	_, err := c.GoogleLogin(context.Background(), "auth-code")
	require.NoError(t, err)

	calls := api.calls(http.MethodPost, "/auth/google/callback")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"code":"auth-code"}`, calls[0].Body)
	assert.Equal(t, auth.Session{AccessToken: "google-access", RefreshToken: "google-refresh"}, c.Session())
}

func TestGetCurrentUser_AdoptsExternallyStoredToken(t *testing.T) {
	api, server := newMockAPI(t)
	api.on(http.MethodGet, "/users/me", meRequiring("external"))

	c, storage := newTestClient(t, server.URL, auth.Session{})
	require.NoError(t, storage.Set(auth.AccessTokenKey, "external"))

	env, err := c.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", env.Data.Email)
	assert.Equal(t, "external", c.Session().AccessToken)
}

func TestLogout_ClearsSession(t *testing.T) {
	_, server := newMockAPI(t)
	c, storage := newTestClient(t, server.URL, auth.Session{AccessToken: "a", RefreshToken: "r"})

	c.Logout()

	assert.Equal(t, auth.Session{}, c.Session())
	stored, err := auth.NewTokenStore(storage).Load()
	require.NoError(t, err)
	assert.Equal(t, auth.Session{}, stored)

	// Logging out twice is harmless
	c.Logout()
}
