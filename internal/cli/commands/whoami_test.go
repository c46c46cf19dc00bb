package commands

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-dev/finboard/internal/cli/auth"
)

func TestWhoamiCommand(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.backend.withUser()

	require.NoError(t, runWhoami(context.Background(), h.opts...))

	out := h.out.String()
	assert.Contains(t, out, "User:   Jane Doe (jane@example.com)")
	assert.Contains(t, out, "ID:     user-123")
	assert.NotContains(t, out, "Token:", "opaque tokens have no expiry to show")
}

func TestWhoamiCommand_ShowsTokenExpiry(t *testing.T) {
	h := newHarness(t)
	h.backend.withUser()

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, h.tokens.SaveAccessToken(token))

	require.NoError(t, runWhoami(context.Background(), h.opts...))
	assert.Contains(t, h.out.String(), "Token:  expires "+expires.Local().Format(time.RFC1123))
}

func TestWhoamiCommand_NotLoggedIn(t *testing.T) {
	h := newHarness(t)

	err := runWhoami(context.Background(), h.opts...)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, h.backend.count("GET /users/me"))
}

func TestWhoamiCommand_StaleTokenRemoved(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.tokens.Save(auth.Session{AccessToken: "stale"}))
	h.backend.handle("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := runWhoami(context.Background(), h.opts...)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	token, err := h.tokens.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}
