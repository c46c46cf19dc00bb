package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Token store backends
const (
	TokenStoreKeyring = "keyring"
	TokenStoreSQLite  = "sqlite"
	TokenStoreMemory  = "memory"
)

// Config holds all process-level configuration for the CLI
type Config struct {
	// API Configuration
	API APIConfig

	// Session persistence
	Session SessionConfig

	// Google OAuth
	Google GoogleConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the backend override
type APIConfig struct {
	URL string // When set, takes precedence over servers in finboard.yaml
}

// SessionConfig controls where tokens are persisted
type SessionConfig struct {
	TokenStore string // keyring, sqlite, memory; empty means use finboard.yaml or keyring
	DBPath     string // sqlite file used when TokenStore is sqlite
}

// GoogleConfig holds the Google OAuth settings for browser login
type GoogleConfig struct {
	ClientID     string
	CallbackPort int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	callbackPort := 8765
	if raw := os.Getenv("FINBOARD_CALLBACK_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 0 || port > 65535 {
			return nil, &InvalidValueError{Name: "FINBOARD_CALLBACK_PORT", Value: raw}
		}
		callbackPort = port
	}

	tokenStore := strings.ToLower(os.Getenv("FINBOARD_TOKEN_STORE"))
	switch tokenStore {
	case "", TokenStoreKeyring, TokenStoreSQLite, TokenStoreMemory:
	default:
		return nil, &InvalidValueError{Name: "FINBOARD_TOKEN_STORE", Value: tokenStore}
	}

	return &Config{
		API: APIConfig{
			URL: strings.TrimRight(os.Getenv("FINBOARD_API_URL"), "/"),
		},
		Session: SessionConfig{
			TokenStore: tokenStore,
			DBPath:     os.Getenv("FINBOARD_SESSION_DB"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("FINBOARD_GOOGLE_CLIENT_ID"),
			CallbackPort: callbackPort,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}

// InvalidValueError reports an environment variable with an unusable value
type InvalidValueError struct {
	Name  string
	Value string
}

func (e *InvalidValueError) Error() string {
	return "invalid value for " + e.Name + ": " + strconv.Quote(e.Value)
}
