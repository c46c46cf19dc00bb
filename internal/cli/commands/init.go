package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var alias, webURL string

	cmd := &cobra.Command{
		Use:   "init <api-url>",
		Short: "Add a finboard server to finboard.yaml",
		Long: `Add a finboard server to finboard.yaml in the current directory.

Examples:
  $ finboard init https://api.finboard.example
  $ finboard init http://localhost:3001 --alias local --web-url http://localhost:3000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0], alias, webURL, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Server alias (defaults to 'default', then server-N)")
	cmd.Flags().StringVar(&webURL, "web-url", "", "Web dashboard URL opened by 'finboard dash'")

	return cmd
}

func runInit(apiURL, alias, webURL string, out io.Writer) error {
	apiURL = strings.TrimRight(apiURL, "/")
	if err := config.ValidateURL(apiURL); err != nil {
		return err
	}
	if webURL != "" {
		if err := config.ValidateURL(webURL); err != nil {
			return fmt.Errorf("web url: %w", err)
		}
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(out, "Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{}
		isNewConfig = true
	}

	if existing, err := cfg.GetServerByURL(apiURL); err == nil {
		fmt.Fprintf(out, "Server %s already exists in %s (%s)\n", apiURL, config.ConfigFileName, existing.Alias)
		return nil
	}

	if alias == "" {
		alias = "default"
		if len(cfg.Servers) > 0 {
			alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
		}
	}
	if _, err := cfg.GetServerByAlias(alias); err == nil {
		return fmt.Errorf("alias '%s' is already used in %s", alias, config.ConfigFileName)
	}

	cfg.Servers = append(cfg.Servers, config.Server{
		Alias:  alias,
		URL:    apiURL,
		WebURL: webURL,
	})

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Fprintf(out, "✓ Created ./%s with server %s (%s)\n", config.ConfigFileName, apiURL, alias)
	} else {
		fmt.Fprintf(out, "✓ Added server %s (%s) to ./%s\n", apiURL, alias, config.ConfigFileName)
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run 'finboard register' to create an account")
	fmt.Fprintln(out, "  2. Run 'finboard login' to authenticate")

	return nil
}
