package cli

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/commands"
	"github.com/finboard-dev/finboard/internal/config"
	"github.com/finboard-dev/finboard/internal/logger"
)

var version = "dev" // Will be set during build

var debug bool

var rootCmd = &cobra.Command{
	Use:   "finboard",
	Short: "finboard - your personal finance dashboard from the terminal",
	Long: `finboard CLI - Track accounts, transactions, budgets and investments.

finboard talks to a finboard API server. Add one with 'finboard init <api-url>',
then 'finboard register' or 'finboard login'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, format := "warn", "console"
		if cfg, err := config.Load(); err == nil {
			level, format = cfg.Logging.Level, cfg.Logging.Format
		}
		if debug {
			level = "debug"
		}
		logger.Init(level, format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log API requests to stderr")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, figure.NewFigure("finboard", "cybermedium", true).String())
			fmt.Fprintf(out, "finboard version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewProfileCmd())
	rootCmd.AddCommand(commands.NewAccountsCmd())
	rootCmd.AddCommand(commands.NewTransactionsCmd())
	rootCmd.AddCommand(commands.NewBudgetsCmd())
	rootCmd.AddCommand(commands.NewInvestmentsCmd())
	rootCmd.AddCommand(commands.NewDashCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
