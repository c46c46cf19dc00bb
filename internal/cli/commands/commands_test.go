package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finboard-dev/finboard/internal/cli/auth"
	"github.com/finboard-dev/finboard/internal/cli/config"
	appconfig "github.com/finboard-dev/finboard/internal/config"
)

// mockBackend is a minimal finance API. Routes are keyed by "METHOD /path".
type mockBackend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	bodies map[string]string
}

func newMockBackend(t *testing.T) *mockBackend {
	t.Helper()

	b := &mockBackend{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
		bodies: make(map[string]string),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		var body bytes.Buffer
		body.ReadFrom(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body.Bytes()))

		b.mu.Lock()
		handler, ok := b.routes[key]
		b.hits[key]++
		b.bodies[key] = body.String()
		b.mu.Unlock()

		if !ok {
			t.Errorf("unexpected request: %s", key)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(b.Close)

	return b
}

func (b *mockBackend) handle(key string, handler http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key] = handler
}

func (b *mockBackend) reply(key string, httpStatus, statusCode int, message string, data any) {
	b.handle(key, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		env := map[string]any{"statusCode": statusCode, "message": message}
		if data != nil {
			env["data"] = data
		}
		json.NewEncoder(w).Encode(env)
	})
}

func (b *mockBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *mockBackend) body(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

var janeJSON = map[string]any{
	"_id":   "user-123",
	"email": "jane@example.com",
	"name":  "Jane Doe",
}

// withUser makes /users/me answer for any bearer token
func (b *mockBackend) withUser() {
	b.handle("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"statusCode": 200, "message": "ok", "data": janeJSON})
	})
}

func (b *mockBackend) withLogin() {
	b.reply("POST /auth/login", http.StatusCreated, http.StatusCreated, "Login successful", map[string]any{
		"access_token":  "access-1",
		"refresh_token": "refresh-1",
	})
}

type testHarness struct {
	backend *mockBackend
	tokens  auth.TokenStore
	out     *bytes.Buffer
	opened  []string
	opts    []Option
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	h := &testHarness{
		backend: newMockBackend(t),
		tokens:  auth.NewTokenStore(auth.NewMemoryStorage()),
		out:     &bytes.Buffer{},
	}
	h.opts = []Option{
		WithEnv(&appconfig.Config{}),
		WithServer(&config.Server{Alias: "test", URL: h.backend.URL}),
		WithTokenStore(h.tokens),
		WithOutput(h.out),
		WithBrowser(func(url string) error {
			h.opened = append(h.opened, url)
			return nil
		}),
	}
	return h
}

func (h *testHarness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.tokens.Save(auth.Session{AccessToken: "access-1", RefreshToken: "refresh-1"}))
}
