package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "finboard.yaml"

// Server represents a finance API the CLI can talk to
type Server struct {
	Alias  string `yaml:"alias"`
	URL    string `yaml:"url"`
	WebURL string `yaml:"web_url,omitempty"` // dashboard origin, used for the Google login hand-off
}

// Config represents the project configuration file
type Config struct {
	Servers    []Server `yaml:"servers"`
	TokenStore string   `yaml:"token_store,omitempty"`
}

// DefaultConfig returns a configuration pointing at apiURL
func DefaultConfig(apiURL string) *Config {
	return &Config{
		Servers: []Server{
			{
				Alias: "default",
				URL:   strings.TrimRight(apiURL, "/"),
			},
		},
	}
}

// Validate checks that every server has an alias and an http(s) URL
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Servers))
	for i, server := range c.Servers {
		if server.Alias == "" {
			return fmt.Errorf("server %d: alias is required", i+1)
		}
		if seen[server.Alias] {
			return fmt.Errorf("server %d: duplicate alias '%s'", i+1, server.Alias)
		}
		seen[server.Alias] = true

		if err := ValidateURL(server.URL); err != nil {
			return fmt.Errorf("server '%s': %w", server.Alias, err)
		}
		if server.WebURL != "" {
			if err := ValidateURL(server.WebURL); err != nil {
				return fmt.Errorf("server '%s' web_url: %w", server.Alias, err)
			}
		}
	}
	return nil
}

// ValidateURL checks that raw is an absolute http or https URL
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url '%s': %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url '%s': must start with http:// or https://", raw)
	}
	return nil
}

// FindConfigFile searches for finboard.yaml in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for i := range cfg.Servers {
		cfg.Servers[i].URL = strings.TrimRight(cfg.Servers[i].URL, "/")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent directories
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}
	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetServerByURL returns a server by its API URL
func (c *Config) GetServerByURL(rawURL string) (*Server, error) {
	rawURL = strings.TrimRight(rawURL, "/")
	for i := range c.Servers {
		if c.Servers[i].URL == rawURL {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with URL '%s' not found", rawURL)
}

// GetServerByURLOrAlias finds a server by API URL, then by alias
func (c *Config) GetServerByURLOrAlias(urlOrAlias string) (*Server, error) {
	if server, err := c.GetServerByURL(urlOrAlias); err == nil {
		return server, nil
	}
	if server, err := c.GetServerByAlias(urlOrAlias); err == nil {
		return server, nil
	}
	return nil, fmt.Errorf("server '%s' not found in %s (use URL or alias)", urlOrAlias, ConfigFileName)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}
