package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/config"
	"github.com/finboard-dev/finboard/internal/cli/serverselect"
	"github.com/finboard-dev/finboard/internal/cli/userconfig"
)

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-server [url-or-alias]",
		Short: "Select the server to use for commands",
		Long: `Select the server to use for commands.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ finboard select-server                                # Interactive selection
  $ finboard select-server https://api.finboard.example   # Select by URL
  $ finboard select-server local                          # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urlOrAlias string
			if len(args) > 0 {
				urlOrAlias = args[0]
			}
			return runSelectServer(urlOrAlias, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runSelectServer(urlOrAlias string, out io.Writer) error {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\n%s", err, initHint)
	}

	var server *config.Server

	if urlOrAlias != "" {
		server, err = cfg.GetServerByURLOrAlias(urlOrAlias)
		if err != nil {
			return err
		}
	} else {
		server, err = serverselect.PromptServerSelection(cfg)
		if err != nil {
			return err
		}
	}

	if err := userconfig.SetSelectedServer(server.URL); err != nil {
		return fmt.Errorf("failed to save selected server: %w", err)
	}

	fmt.Fprintf(out, "Selected server: %s (%s)\n", server.Alias, server.URL)
	return nil
}
