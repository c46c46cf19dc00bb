package commands

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/finboard-dev/finboard/internal/cli/auth"
	"github.com/finboard-dev/finboard/internal/cli/client"
	"github.com/finboard-dev/finboard/internal/cli/config"
	"github.com/finboard-dev/finboard/internal/cli/serverselect"
	"github.com/finboard-dev/finboard/internal/cli/session"
	"github.com/finboard-dev/finboard/internal/cli/userconfig"
	appconfig "github.com/finboard-dev/finboard/internal/config"
	"github.com/finboard-dev/finboard/internal/logger"
)

const (
	initHint         = "Run 'finboard init <api-url>' to create a configuration file"
	loginHint        = "Run 'finboard login' to authenticate"
	sessionDBName    = "sessions.db"
	defaultUserAgent = "finboard-cli"
)

// Option overrides a dependency of a command runner
type Option func(*options)

type options struct {
	env     *appconfig.Config
	server  *config.Server
	tokens  auth.TokenStore
	out     io.Writer
	browser func(url string) error
}

// WithEnv sets the process configuration instead of reading the environment
func WithEnv(env *appconfig.Config) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithServer pins the API server instead of resolving it from finboard.yaml
func WithServer(server *config.Server) Option {
	return func(o *options) {
		o.server = server
	}
}

// WithTokenStore sets the token store instead of the configured backend
func WithTokenStore(tokens auth.TokenStore) Option {
	return func(o *options) {
		o.tokens = tokens
	}
}

// WithOutput redirects command output
func WithOutput(out io.Writer) Option {
	return func(o *options) {
		o.out = out
	}
}

// WithBrowser replaces the function used to open URLs
func WithBrowser(open func(url string) error) Option {
	return func(o *options) {
		o.browser = open
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{
		out:     os.Stdout,
		browser: openBrowser,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.env == nil {
		env, err := appconfig.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
		o.env = env
	}

	return o, nil
}

// env bundles everything a command needs to talk to one server
type env struct {
	cfg     *appconfig.Config
	server  *config.Server
	tokens  auth.TokenStore
	api     *client.Client
	manager *session.Manager
	out     io.Writer
	browser func(url string) error
	logger  zerolog.Logger

	db *gorm.DB
}

// newEnv resolves the server, opens its token store and builds the API
// client and session manager over it.
func newEnv(opts []Option) (*env, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	var projectConfig *config.Config
	server := o.server
	if server == nil {
		projectConfig, server, err = getSelectedServer(o.env.API.URL)
		if err != nil {
			return nil, err
		}
	}

	e := &env{
		cfg:     o.env,
		server:  server,
		tokens:  o.tokens,
		out:     o.out,
		browser: o.browser,
		logger:  logger.GetLogger(),
	}

	if e.tokens == nil {
		if err := e.openTokenStore(projectConfig); err != nil {
			return nil, err
		}
	}

	e.api = client.New(server.URL, e.tokens,
		client.WithLogger(e.logger),
		client.WithUserAgent(defaultUserAgent),
	)
	e.manager = session.NewManager(e.api, e.tokens, e.logger)
	e.manager.Subscribe(e.rememberUser)

	return e, nil
}

// rememberUser records who signed in so the next login can offer their email
func (e *env) rememberUser(user *client.User) {
	if user == nil || user.Email == "" {
		return
	}
	if err := userconfig.RememberEmail(e.server.URL, user.Email); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to remember login email")
	}
}

// openTokenStore picks the storage backend: FINBOARD_TOKEN_STORE, then
// token_store in finboard.yaml, then token_store in the user config, then
// the OS keyring.
func (e *env) openTokenStore(projectConfig *config.Config) error {
	backend := e.cfg.Session.TokenStore
	if backend == "" && projectConfig != nil {
		backend = projectConfig.TokenStore
	}
	if backend == "" {
		userConfig, err := userconfig.Load()
		if err != nil {
			return fmt.Errorf("failed to load user config: %w", err)
		}
		backend = userConfig.TokenStore
	}

	var storage auth.Storage
	switch backend {
	case "", appconfig.TokenStoreKeyring:
		storage = auth.NewKeyringStorage(e.server.URL)
	case appconfig.TokenStoreMemory:
		storage = auth.NewMemoryStorage()
	case appconfig.TokenStoreSQLite:
		dbPath, err := e.sessionDBPath()
		if err != nil {
			return err
		}
		db, err := auth.OpenSQLiteDB(dbPath)
		if err != nil {
			return err
		}
		e.db = db
		storage = auth.NewSQLiteStorage(db, e.server.URL)
	default:
		return fmt.Errorf("unknown token store '%s' (expected keyring, sqlite or memory)", backend)
	}

	e.logger.Debug().Str("backend", backend).Str("server", e.server.URL).Msg("Opened token store")
	e.tokens = auth.NewTokenStore(storage)
	return nil
}

func (e *env) sessionDBPath() (string, error) {
	if e.cfg.Session.DBPath != "" {
		return e.cfg.Session.DBPath, nil
	}
	dir, err := userconfig.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionDBName), nil
}

// Close releases the session database when one was opened
func (e *env) Close() {
	if e.db == nil {
		return
	}
	if sqlDB, err := e.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			e.logger.Warn().Err(err).Msg("Error closing session database")
		}
	}
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *env) println(args ...any) {
	fmt.Fprintln(e.out, args...)
}

// getSelectedServer loads the config and returns the selected server.
// An explicit API URL works without a finboard.yaml.
func getSelectedServer(apiURL string) (*config.Config, *config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		if apiURL == "" {
			return nil, nil, fmt.Errorf("failed to load config: %w\n%s", err, initHint)
		}
		cfg = nil
	}

	server, err := serverselect.ResolveServer(cfg, apiURL)
	if err != nil {
		return nil, nil, err
	}

	if server.URL == "" {
		return nil, nil, fmt.Errorf("server URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	return cfg, server, nil
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// envelopeError turns a non-success envelope into an error carrying the
// backend message.
func envelopeError[T any](action string, resp *client.Envelope[T]) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	message := resp.Message
	if message == "" {
		message = resp.Error
	}
	if message == "" {
		message = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Errorf("%s: %s", action, message)
}
