package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/client"
	"github.com/finboard-dev/finboard/internal/cli/oauthcallback"
	"github.com/finboard-dev/finboard/internal/cli/userconfig"
	"github.com/finboard-dev/finboard/internal/validation"
)

const googleLoginTimeout = 5 * time.Minute

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string
	var google bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a finboard server",
		Long: `Authenticate with a finboard server.

Examples:
  $ finboard login --email jane@example.com   # Prompts for the password
  $ finboard login --google                   # Sign in with Google in the browser`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if google {
				return runGoogleLogin(cmd.Context())
			}
			return runLogin(cmd.Context(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set FINBOARD_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set FINBOARD_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&google, "google", false, "Sign in with Google in the browser")

	return cmd
}

func runLogin(ctx context.Context, email, password string, opts ...Option) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("FINBOARD_EMAIL")
	}
	if password == "" {
		password = os.Getenv("FINBOARD_PASSWORD")
	}

	e, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if email == "" {
		if !isInteractive() {
			return fmt.Errorf("email is required (use --email flag or FINBOARD_EMAIL env var)")
		}
		lastEmail, _ := userconfig.LastEmail(e.server.URL)
		if email, err = promptField("Email", lastEmail, validation.ValidateEmail); err != nil {
			return err
		}
	}

	if password == "" {
		if !isInteractive() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or FINBOARD_PASSWORD env var)")
		}
		if password, err = readPassword(e.out, "Password"); err != nil {
			return err
		}
	}

	credentials := client.LoginCredentials{Email: email, Password: password}
	if err := validation.Struct(credentials); err != nil {
		return err
	}

	e.printf("Logging in to %s (%s)...\n", e.server.Alias, e.server.URL)

	if err := e.manager.Login(ctx, credentials); err != nil {
		return loginError(err)
	}

	printLoggedIn(e)
	return nil
}

func runGoogleLogin(ctx context.Context, opts ...Option) error {
	e, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	listener, err := oauthcallback.Start(oauthcallback.Options{
		Port:           e.cfg.Google.CallbackPort,
		APIURL:         e.server.URL,
		GoogleClientID: e.cfg.Google.ClientID,
		AllowedOrigins: []string{e.server.URL, e.server.WebURL},
		Logger:         e.logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := listener.Shutdown(shutdownCtx); err != nil {
			e.logger.Warn().Err(err).Msg("Error shutting down callback listener")
		}
	}()

	authURL := listener.AuthURL()
	e.printf("Opening Google sign-in for %s (%s)...\n", e.server.Alias, e.server.URL)
	if err := e.browser(authURL); err != nil {
		e.printf("⚠ Could not open browser automatically: %v\n", err)
	}
	e.printf("If the browser did not open, visit:\n  %s\n\nWaiting for sign-in...\n", authURL)

	waitCtx, cancel := context.WithTimeout(ctx, googleLoginTimeout)
	defer cancel()

	result, err := listener.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("timed out waiting for Google sign-in")
		}
		return err
	}

	switch {
	case result.Err != nil:
		return fmt.Errorf("google login failed: %w", result.Err)
	case result.Handoff != nil:
		if err := e.manager.AdoptHandoff(*result.Handoff); err != nil {
			return fmt.Errorf("failed to save authentication token: %w", err)
		}
	default:
		if err := e.manager.GoogleLogin(ctx, result.Code); err != nil {
			return loginError(err)
		}
	}

	printLoggedIn(e)
	return nil
}

func loginError(err error) error {
	if errors.Is(err, client.ErrAuthenticationFailed) {
		return fmt.Errorf("login failed: %w", err)
	}
	return err
}

func printLoggedIn(e *env) {
	e.println("✓ Login successful!")
	if user := e.manager.User(); user != nil {
		e.printf("  User: %s (%s)\n", user.Name, user.Email)
	}
}
