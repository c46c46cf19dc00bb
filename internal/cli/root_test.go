package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "finboard version dev")
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{
		"version", "init", "select-server", "login", "register", "logout", "whoami",
		"profile", "accounts", "transactions", "budgets", "investments", "dash",
	}

	var got []string
	for _, cmd := range rootCmd.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}
