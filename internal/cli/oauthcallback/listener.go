// Package oauthcallback runs the short-lived local web server that
// receives the browser redirect at the end of a Google login.
package oauthcallback

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/finboard-dev/finboard/internal/cli/session"
)

const (
	deniedMessage = "Google login failed. Please try again."
	noCodeMessage = "No authorization code received from Google."
)

const (
	callbackPath = "/auth/google/callback"
	successPath  = "/auth/google-success"
	healthPath   = "/health"
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

var (
	// ErrGoogleDenied is returned when Google reports an error on the redirect
	ErrGoogleDenied = errors.New("google login failed")
	// ErrNoCode is returned when the redirect carries no authorization code
	ErrNoCode = errors.New("no authorization code received")
	// ErrStateMismatch is returned when the redirect state was not issued by this listener
	ErrStateMismatch = errors.New("invalid state parameter")
)

// Result is the outcome of the browser redirect. Exactly one of Code,
// Handoff or Err is set.
type Result struct {
	Code    string
	Handoff *session.Handoff
	Err     error
}

// Options configures the listener
type Options struct {
	// Port to bind on 127.0.0.1; 0 picks a free port
	Port int
	// APIURL is the backend base URL used for the backend-hosted flow
	APIURL string
	// GoogleClientID enables the direct Google consent flow
	GoogleClientID string
	// AllowedOrigins may call the listener from a browser
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Listener is a running callback server
type Listener struct {
	server   *http.Server
	listener net.Listener
	baseURL  string
	apiURL   string
	state    string
	oauth    *oauth2.Config
	logger   zerolog.Logger

	results chan Result
	once    sync.Once
}

// Start binds the listener and serves in the background
func Start(opts Options) (*Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", opts.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	l := &Listener{
		listener: ln,
		baseURL:  "http://" + ln.Addr().String(),
		apiURL:   strings.TrimRight(opts.APIURL, "/"),
		state:    uuid.NewString(),
		logger:   opts.Logger,
		results:  make(chan Result, 1),
	}

	if opts.GoogleClientID != "" {
		l.oauth = &oauth2.Config{
			ClientID:    opts.GoogleClientID,
			Endpoint:    googleEndpoint,
			RedirectURL: l.baseURL + callbackPath,
			Scopes:      []string{"openid", "profile", "email"},
		}
	}

	l.server = &http.Server{
		Handler:           l.router(opts.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.logger.Debug().Str("addr", l.baseURL).Msg("Starting callback listener")
		if err := l.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.logger.Error().Err(err).Msg("Callback listener error")
			l.deliver(Result{Err: err})
		}
	}()

	return l, nil
}

func (l *Listener) router(allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(l.loggingMiddleware())

	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if origin := originOf(o); origin != "" {
			origins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return origins[origin] },
		AllowMethods:    []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          time.Hour,
	}))

	r.GET(healthPath, l.health)
	r.GET(callbackPath, l.googleCallback)
	r.GET(successPath, l.googleSuccess)

	return r
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func (l *Listener) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Callback request")
	}
}

// URL returns the listener base URL
func (l *Listener) URL() string {
	return l.baseURL
}

// State returns the OAuth state issued by this listener
func (l *Listener) State() string {
	return l.state
}

// AuthURL returns the page the user opens to start the login. With a
// Google client ID it is Google's consent page; otherwise the backend's
// own Google entry point, told to hand the session back to this listener.
func (l *Listener) AuthURL() string {
	if l.oauth != nil {
		return l.oauth.AuthCodeURL(l.state, oauth2.SetAuthURLParam("prompt", "select_account"))
	}

	q := url.Values{}
	q.Set("redirect_uri", l.baseURL+successPath)
	return l.apiURL + "/auth/google?" + q.Encode()
}

// Wait blocks until the first redirect arrives or ctx is done
func (l *Listener) Wait(ctx context.Context) (Result, error) {
	select {
	case r := <-l.results:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Shutdown stops the listener
func (l *Listener) Shutdown(ctx context.Context) error {
	return l.server.Shutdown(ctx)
}

func (l *Listener) deliver(r Result) bool {
	delivered := false
	l.once.Do(func() {
		l.results <- r
		delivered = true
	})
	return delivered
}

func (l *Listener) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "finboard-callback",
	})
}

func (l *Listener) googleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		l.logger.Warn().Str("error", errParam).Msg("Google reported an error")
		l.fail(c, http.StatusBadRequest, ErrGoogleDenied, deniedMessage)
		return
	}

	code := c.Query("code")
	if code == "" {
		l.fail(c, http.StatusBadRequest, ErrNoCode, noCodeMessage)
		return
	}

	// Only the direct flow carries a state we issued
	if l.oauth != nil && c.Query("state") != l.state {
		renderPage(c, http.StatusBadRequest, "Login failed", "Invalid state parameter.")
		return
	}

	if !l.deliver(Result{Code: code}) {
		renderPage(c, http.StatusConflict, "Already handled", "This login was already completed.")
		return
	}
	renderPage(c, http.StatusOK, "Completing login", "Return to your terminal to finish signing in.")
}

func (l *Listener) googleSuccess(c *gin.Context) {
	h, err := session.ParseHandoff(c.Request.URL.Query())
	if err != nil {
		l.fail(c, http.StatusBadRequest, err, "No access token received.")
		return
	}

	if !l.deliver(Result{Handoff: &h}) {
		renderPage(c, http.StatusConflict, "Already handled", "This login was already completed.")
		return
	}
	renderPage(c, http.StatusOK, "Login successful", "You can close this window and return to your terminal.")
}

func (l *Listener) fail(c *gin.Context, status int, err error, message string) {
	l.deliver(Result{Err: err})
	renderPage(c, status, "Login failed", message)
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html><head><title>finboard - {{.Title}}</title></head>
<body><h1>{{.Title}}</h1><p>{{.Message}}</p></body></html>
`))

func renderPage(c *gin.Context, status int, title, message string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := page.Execute(c.Writer, struct{ Title, Message string }{title, message}); err != nil {
		c.Error(err)
	}
}
