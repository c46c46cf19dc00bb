package session

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/finboard-dev/finboard/internal/cli/auth"
	"github.com/finboard-dev/finboard/internal/cli/client"
)

// API is the subset of the API client the manager drives
type API interface {
	Login(ctx context.Context, credentials client.LoginCredentials) (*client.Envelope[client.AuthResponse], error)
	GoogleLogin(ctx context.Context, code string) (*client.Envelope[client.AuthResponse], error)
	Register(ctx context.Context, credentials client.RegisterCredentials) (*client.Envelope[client.RegisterResponse], error)
	GetCurrentUser(ctx context.Context) (*client.Envelope[client.User], error)
	Logout()
}

// Listener is notified after every change of the current user
type Listener func(user *client.User)

type subscription struct {
	id uint64
	fn Listener
}

// Manager owns the authenticated user for the process and distributes
// changes to subscribers.
type Manager struct {
	api    API
	tokens auth.TokenStore
	logger zerolog.Logger

	mu        sync.Mutex
	user      *client.User
	loading   bool
	listeners []subscription
	nextID    uint64
}

// NewManager creates a manager over the given API and token store
func NewManager(api API, tokens auth.TokenStore, logger zerolog.Logger) *Manager {
	return &Manager{
		api:    api,
		tokens: tokens,
		logger: logger,
	}
}

// User returns the current user or nil when logged out
func (m *Manager) User() *client.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Loading reports whether the initial session check is running
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Subscribe registers fn for user changes. The returned func unsubscribes.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners = slices.DeleteFunc(m.listeners, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Subscribers returns the number of registered listeners
func (m *Manager) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

func (m *Manager) setUser(user *client.User) {
	m.mu.Lock()
	m.user = user
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	if user != nil {
		m.logger.Debug().Str("user_id", user.ID).Str("email", user.Email).Msg("User changed")
	} else {
		m.logger.Debug().Msg("User cleared")
	}

	for _, l := range listeners {
		l.fn(user)
	}
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	m.loading = loading
	m.mu.Unlock()
}

// Resolve checks the stored session and loads the user. Failures are
// absorbed: the stored access token is dropped and the user stays nil.
func (m *Manager) Resolve(ctx context.Context) {
	m.setLoading(true)
	defer m.setLoading(false)

	token, err := m.tokens.AccessToken()
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to read stored access token")
		return
	}
	if token == "" {
		return
	}

	env, err := m.api.GetCurrentUser(ctx)
	if err == nil && env.StatusCode == http.StatusOK && env.Data != nil {
		m.setUser(env.Data)
		return
	}

	if err != nil {
		m.logger.Warn().Err(err).Msg("Session check failed")
	} else {
		m.logger.Debug().Int("status", env.StatusCode).Msg("Stored session rejected")
	}

	if err := m.tokens.RemoveAccessToken(); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to remove stored access token")
	}
}

// Login authenticates with email and password and loads the user
func (m *Manager) Login(ctx context.Context, credentials client.LoginCredentials) error {
	env, err := m.api.Login(ctx, credentials)
	if err != nil {
		return err
	}
	if !authenticated(env) {
		return fmt.Errorf("%w: %s", ErrLoginFailed, env.Message)
	}

	return m.loadUser(ctx)
}

// GoogleLogin exchanges a Google authorization code and loads the user
func (m *Manager) GoogleLogin(ctx context.Context, code string) error {
	env, err := m.api.GoogleLogin(ctx, code)
	if err != nil {
		return err
	}
	if !authenticated(env) {
		return fmt.Errorf("%w: %s", ErrGoogleLoginFailed, env.Message)
	}

	return m.loadUser(ctx)
}

func authenticated(env *client.Envelope[client.AuthResponse]) bool {
	return env.StatusCode == http.StatusCreated && env.Data != nil && env.Data.AccessToken != ""
}

func (m *Manager) loadUser(ctx context.Context) error {
	env, err := m.api.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	if env.StatusCode != http.StatusOK || env.Data == nil {
		return ErrUserDataUnavailable
	}

	m.setUser(env.Data)
	return nil
}

// Register creates the account, then logs in with the same credentials.
// When the follow-up login or user fetch fails, the user is built from the
// registration data instead.
func (m *Manager) Register(ctx context.Context, credentials client.RegisterCredentials) error {
	env, err := m.api.Register(ctx, credentials)
	if err != nil {
		return err
	}
	if env.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: %s", ErrRegistrationFailed, env.Message)
	}

	loginErr := m.Login(ctx, client.LoginCredentials{
		Email:    credentials.Email,
		Password: credentials.Password,
	})
	if loginErr == nil {
		return nil
	}

	m.logger.Warn().Err(loginErr).Msg("Auto-login after registration failed, using registration data")

	var id string
	if env.Data != nil {
		id = env.Data.ID
	}
	m.setUser(&client.User{
		ID:    id,
		Name:  credentials.Name,
		Email: credentials.Email,
	})

	return nil
}

// Logout discards the tokens and the user
func (m *Manager) Logout() {
	m.api.Logout()
	m.setUser(nil)
}

// SetUserDirectly installs a user obtained outside the login calls
func (m *Manager) SetUserDirectly(user client.User) {
	m.setUser(&user)
}
