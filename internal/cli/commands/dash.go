package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDashCmd creates the dash command
func NewDashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the web dashboard in browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash()
		},
	}

	return cmd
}

func runDash(opts ...Option) error {
	o, err := buildOptions(opts)
	if err != nil {
		return err
	}

	server := o.server
	if server == nil {
		if _, server, err = getSelectedServer(o.env.API.URL); err != nil {
			return err
		}
	}

	dashboardURL := server.WebURL
	if dashboardURL == "" {
		dashboardURL = server.URL
	}
	dashboardURL += "/dashboard"

	fmt.Fprintf(o.out, "Opening dashboard for %s...\n", server.Alias)
	fmt.Fprintf(o.out, "URL: %s\n", dashboardURL)

	if err := o.browser(dashboardURL); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, dashboardURL)
	}

	return nil
}
