package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	configDirName  = "finboard"
	configFileName = "config.json"
)

// UserConfig is the per-user state kept in ~/.config/finboard/config.json.
// It never holds tokens.
type UserConfig struct {
	SelectedServerURL string `json:"selected_server_url"`

	// TokenStore is the default session backend when neither the
	// environment nor finboard.yaml names one.
	TokenStore string `json:"token_store,omitempty"`

	// LastEmails maps a server URL to the email of the last user who
	// signed in there. Used as the login prompt default.
	LastEmails map[string]string `json:"last_emails,omitempty"`
}

// updateMu serializes read-modify-write cycles within the process
var updateMu sync.Mutex

// GetConfigDir returns the per-user finboard directory
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName), nil
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration. A missing file yields an empty config.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg through a temp file and rename so readers never see a
// partial file. The file is private to the user.
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, configFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	if err := os.Rename(tmp.Name(), configPath); err != nil {
		return fmt.Errorf("failed to replace user config file: %w", err)
	}
	return nil
}

// Update loads the config, applies fn and saves the result
func Update(fn func(cfg *UserConfig)) error {
	updateMu.Lock()
	defer updateMu.Unlock()

	cfg, err := Load()
	if err != nil {
		return err
	}
	fn(cfg)
	return Save(cfg)
}

// SetSelectedServer updates the selected server URL and saves the config
func SetSelectedServer(serverURL string) error {
	return Update(func(cfg *UserConfig) {
		cfg.SelectedServerURL = serverURL
	})
}

// GetSelectedServer returns the selected server URL, or empty string if not set
func GetSelectedServer() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.SelectedServerURL, nil
}

// RememberEmail records email as the last login on serverURL
func RememberEmail(serverURL, email string) error {
	return Update(func(cfg *UserConfig) {
		if cfg.LastEmails == nil {
			cfg.LastEmails = make(map[string]string)
		}
		cfg.LastEmails[serverURL] = email
	})
}

// LastEmail returns the last email used on serverURL, if any
func LastEmail(serverURL string) (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.LastEmails[serverURL], nil
}
