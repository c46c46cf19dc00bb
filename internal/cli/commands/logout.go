package commands

import (
	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session for the selected server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout(opts ...Option) error {
	e, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	e.manager.Logout()

	e.printf("✓ Logged out of %s (%s)\n", e.server.Alias, e.server.URL)
	return nil
}
