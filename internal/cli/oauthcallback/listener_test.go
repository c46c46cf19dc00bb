package oauthcallback

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-dev/finboard/internal/cli/session"
)

func startListener(t *testing.T, opts Options) *Listener {
	t.Helper()

	opts.Logger = zerolog.Nop()
	l, err := Start(opts)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		l.Shutdown(ctx)
	})

	return l
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()

	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func waitResult(t *testing.T, l *Listener) Result {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	r, err := l.Wait(ctx)
	require.NoError(t, err)
	return r
}

func TestHealth(t *testing.T) {
	l := startListener(t, Options{})

	status, body := get(t, l.URL()+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"status":"online"`)
}

func TestAuthURL_BackendHosted(t *testing.T) {
	l := startListener(t, Options{APIURL: "https://api.example.com/"})

	u, err := url.Parse(l.AuthURL())
	require.NoError(t, err)
	assert.Equal(t, "api.example.com", u.Host)
	assert.Equal(t, "/auth/google", u.Path)
	assert.Equal(t, l.URL()+"/auth/google-success", u.Query().Get("redirect_uri"))
}

func TestAuthURL_GoogleConsent(t *testing.T) {
	l := startListener(t, Options{GoogleClientID: "client-1"})

	u, err := url.Parse(l.AuthURL())
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)

	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, l.State(), q.Get("state"))
	assert.Equal(t, l.URL()+"/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
}

func TestCallback_DeliversCode(t *testing.T) {
	l := startListener(t, Options{GoogleClientID: "client-1"})

	status, _ := get(t, l.URL()+"/auth/google/callback?code=abc&state="+l.State())
	assert.Equal(t, http.StatusOK, status)

	r := waitResult(t, l)
	require.NoError(t, r.Err)
	assert.Equal(t, "abc", r.Code)

	// A second redirect is not delivered
	status, _ = get(t, l.URL()+"/auth/google/callback?code=def&state="+l.State())
	assert.Equal(t, http.StatusConflict, status)
}

func TestCallback_BackendFlowIgnoresState(t *testing.T) {
	l := startListener(t, Options{})

	status, _ := get(t, l.URL()+"/auth/google/callback?code=abc")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "abc", waitResult(t, l).Code)
}

func TestCallback_Errors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantErr  error
		wantBody string
	}{
		{
			name:     "google error",
			query:    "error=access_denied",
			wantErr:  ErrGoogleDenied,
			wantBody: "Google login failed. Please try again.",
		},
		{
			name:     "missing code",
			query:    "state=x",
			wantErr:  ErrNoCode,
			wantBody: "No authorization code received from Google.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := startListener(t, Options{})

			status, body := get(t, l.URL()+"/auth/google/callback?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body, tt.wantBody)

			r := waitResult(t, l)
			require.ErrorIs(t, r.Err, tt.wantErr)
		})
	}
}

func TestCallback_StateMismatchNotDelivered(t *testing.T) {
	l := startListener(t, Options{GoogleClientID: "client-1"})

	status, _ := get(t, l.URL()+"/auth/google/callback?code=abc&state=forged")
	assert.Equal(t, http.StatusBadRequest, status)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := l.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSuccess_DeliversHandoff(t *testing.T) {
	l := startListener(t, Options{})

	q := url.Values{
		"access_token": {"tok"},
		"user_id":      {"u1"},
		"user_name":    {"Jane undefined"},
		"user_email":   {"jane@example.com"},
	}
	status, body := get(t, l.URL()+"/auth/google-success?"+q.Encode())
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Login successful")

	r := waitResult(t, l)
	require.NoError(t, r.Err)
	require.NotNil(t, r.Handoff)
	assert.Equal(t, "tok", r.Handoff.AccessToken)
	assert.Equal(t, "Jane", r.Handoff.User.Name)
}

func TestSuccess_MissingToken(t *testing.T) {
	l := startListener(t, Options{})

	status, _ := get(t, l.URL()+"/auth/google-success?user_id=u1")
	assert.Equal(t, http.StatusBadRequest, status)
	require.ErrorIs(t, waitResult(t, l).Err, session.ErrNoHandoffToken)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	l := startListener(t, Options{AllowedOrigins: []string{"https://app.example.com/dashboard"}})

	req, err := http.NewRequest(http.MethodGet, l.URL()+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
