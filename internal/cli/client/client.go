package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/finboard-dev/finboard/internal/cli/auth"
)

const (
	loginEndpoint       = "/auth/login"
	googleLoginEndpoint = "/auth/google/callback"
	registerEndpoint    = "/auth/register"
	refreshEndpoint     = "/auth/refresh"
	usersMeEndpoint     = "/users/me"

	defaultUserAgent = "finboard-cli"
)

// Client represents an HTTP client for the finance API.
// It holds the session token pair and transparently refreshes an
// expired access token once per request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenStore
	logger     zerolog.Logger
	userAgent  string

	mu      sync.Mutex
	session auth.Session
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the transport used for every request
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// New creates a new API client. The session is loaded from tokens; a
// load failure is logged and the client starts unauthenticated.
func New(baseURL string, tokens auth.TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = auth.NewTokenStore(auth.NewMemoryStorage())
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     zerolog.Nop(),
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	session, err := tokens.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to load stored session")
	} else {
		c.session = session
	}

	return c
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns a copy of the held token pair
func (c *Client) Session() auth.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// response is a fully read HTTP response
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// send issues a single HTTP request. The bearer token is attached when
// authenticated is set and an access token is held.
func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, authenticated bool) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if authenticated {
		if token := c.Session().AccessToken; token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("API request")

	return &response{status: resp.StatusCode, body: respBody}, nil
}

// do runs the request protocol: issue, then on 401 with a refresh token
// held refresh once and retry once. A failure after the retry is final.
func (c *Client) do(ctx context.Context, method, endpoint string, in any) (*response, error) {
	var payload []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = data
	}

	resp, err := c.send(ctx, method, endpoint, payload, true)
	if err != nil {
		return nil, err
	}
	if resp.ok() {
		return resp, nil
	}

	if resp.status == http.StatusUnauthorized && endpoint != refreshEndpoint && c.Session().HasRefreshToken() {
		c.logger.Info().Str("endpoint", endpoint).Msg("Access token rejected, refreshing session")

		if err := c.refreshAccessToken(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Token refresh failed, clearing session")
			c.clearTokens()
			return nil, ErrAuthenticationFailed
		}

		resp, err = c.send(ctx, method, endpoint, payload, true)
		if err != nil {
			return nil, err
		}
		if resp.ok() {
			return resp, nil
		}
	}

	return nil, &HTTPError{StatusCode: resp.status, Body: string(resp.body)}
}

// request performs the call and decodes the envelope. The envelope's own
// statusCode is left for the caller to inspect.
func request[T any](ctx context.Context, c *Client, method, endpoint string, in any) (*Envelope[T], error) {
	resp, err := c.do(ctx, method, endpoint, in)
	if err != nil {
		return nil, err
	}

	var env Envelope[T]
	if len(bytes.TrimSpace(resp.body)) == 0 {
		env.StatusCode = resp.status
		return &env, nil
	}

	if err := json.Unmarshal(resp.body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &env, nil
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// refreshAccessToken exchanges the held refresh token for a new access
// token. The refresh token is only replaced when the server issues a new one.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	refreshToken := c.Session().RefreshToken
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, refreshEndpoint, payload, false)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("%w (status %d)", ErrInvalidRefreshResponse, resp.status)
	}

	var env Envelope[refreshResponse]
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRefreshResponse, err)
	}

	if env.StatusCode != http.StatusOK || env.Data == nil || env.Data.AccessToken == "" {
		return ErrInvalidRefreshResponse
	}

	c.mu.Lock()
	c.session.AccessToken = env.Data.AccessToken
	if env.Data.RefreshToken != "" {
		c.session.RefreshToken = env.Data.RefreshToken
	}
	session := c.session
	c.mu.Unlock()

	c.persist(session)
	c.logger.Info().Msg("Session refreshed")

	return nil
}

// setSession replaces the held pair wholesale and persists it
func (c *Client) setSession(session auth.Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.persist(session)
}

func (c *Client) persist(session auth.Session) {
	if err := c.tokens.Save(session); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist session")
	}
}

func (c *Client) clearTokens() {
	c.mu.Lock()
	c.session = auth.Session{}
	c.mu.Unlock()

	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear stored session")
	}
}

// syncStoredAccessToken adopts an access token written to storage by
// another process or the browser hand-off since this client was built.
func (c *Client) syncStoredAccessToken() {
	stored, err := c.tokens.AccessToken()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to re-read stored access token")
		return
	}

	c.mu.Lock()
	changed := stored != "" && stored != c.session.AccessToken
	if changed {
		c.session.AccessToken = stored
	}
	c.mu.Unlock()

	if changed {
		c.logger.Debug().Msg("Adopted access token from storage")
	}
}
