package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-dev/finboard/internal/cli/config"
)

func TestInitCommand_NewConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	var out bytes.Buffer
	require.NoError(t, runInit("https://api.finboard.example/", "", "https://app.finboard.example", &out))

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, []config.Server{{
		Alias:  "default",
		URL:    "https://api.finboard.example",
		WebURL: "https://app.finboard.example",
	}}, cfg.Servers)
	assert.Contains(t, out.String(), "✓ Created ./finboard.yaml")
}

func TestInitCommand_AddsServers(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	var out bytes.Buffer
	require.NoError(t, runInit("https://api.finboard.example", "", "", &out))
	require.NoError(t, runInit("http://localhost:3001", "", "", &out))
	require.NoError(t, runInit("http://localhost:4000", "staging", "", &out))

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 3)
	assert.Equal(t, "server-2", cfg.Servers[1].Alias)
	assert.Equal(t, "staging", cfg.Servers[2].Alias)
	assert.Contains(t, out.String(), "✓ Added server http://localhost:3001 (server-2)")
}

func TestInitCommand_ExistingServer(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	var out bytes.Buffer
	require.NoError(t, runInit("https://api.finboard.example", "", "", &out))
	out.Reset()
	require.NoError(t, runInit("https://api.finboard.example/", "", "", &out))

	assert.Contains(t, out.String(), "already exists")

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Len(t, cfg.Servers, 1)
}

func TestInitCommand_InvalidURL(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	err := runInit("api.finboard.example", "", "", &bytes.Buffer{})
	require.ErrorContains(t, err, "must start with http:// or https://")

	_, statErr := os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInitCommand_DuplicateAlias(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, runInit("https://a.example", "prod", "", &bytes.Buffer{}))
	err := runInit("https://b.example", "prod", "", &bytes.Buffer{})
	require.ErrorContains(t, err, "alias 'prod' is already used")
}
