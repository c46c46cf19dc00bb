package client

import (
	"context"
	"net/http"

	"github.com/finboard-dev/finboard/internal/cli/auth"
)

// Login authenticates with email and password. A 201 envelope carrying an
// access token replaces the held session.
func (c *Client) Login(ctx context.Context, credentials LoginCredentials) (*Envelope[AuthResponse], error) {
	env, err := request[AuthResponse](ctx, c, http.MethodPost, loginEndpoint, credentials)
	if err != nil {
		return nil, err
	}

	c.adoptAuthResponse(env)
	return env, nil
}

// GoogleLogin exchanges a Google authorization code for a session
func (c *Client) GoogleLogin(ctx context.Context, code string) (*Envelope[AuthResponse], error) {
	env, err := request[AuthResponse](ctx, c, http.MethodPost, googleLoginEndpoint, googleCodeRequest{Code: code})
	if err != nil {
		return nil, err
	}

	c.adoptAuthResponse(env)
	return env, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, credentials RegisterCredentials) (*Envelope[RegisterResponse], error) {
	return request[RegisterResponse](ctx, c, http.MethodPost, registerEndpoint, credentials)
}

// Logout discards the held and stored tokens. The backend is not called.
func (c *Client) Logout() {
	c.clearTokens()
}

func (c *Client) adoptAuthResponse(env *Envelope[AuthResponse]) {
	if env.StatusCode != http.StatusCreated || env.Data == nil || env.Data.AccessToken == "" {
		return
	}

	c.setSession(auth.Session{
		AccessToken:  env.Data.AccessToken,
		RefreshToken: env.Data.RefreshToken,
	})
}

// GetCurrentUser fetches the authenticated user. The stored access token
// is re-read first so tokens written externally are picked up.
func (c *Client) GetCurrentUser(ctx context.Context) (*Envelope[User], error) {
	c.syncStoredAccessToken()
	return request[User](ctx, c, http.MethodGet, usersMeEndpoint, nil)
}

// UpdateUser changes profile fields of the authenticated user
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) (*Envelope[User], error) {
	return request[User](ctx, c, http.MethodPut, usersMeEndpoint, update)
}
