package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/client"
	"github.com/finboard-dev/finboard/internal/validation"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a finboard account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), name, email, password)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name (or set FINBOARD_NAME)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set FINBOARD_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set FINBOARD_PASSWORD, will prompt if not provided)")

	return cmd
}

func runRegister(ctx context.Context, name, email, password string, opts ...Option) error {
	if name == "" {
		name = os.Getenv("FINBOARD_NAME")
	}
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

	interactive := isInteractive()
	if (name == "" || email == "" || password == "") && !interactive {
		return fmt.Errorf("name, email and password are required in non-interactive mode (use flags or FINBOARD_NAME, FINBOARD_EMAIL, FINBOARD_PASSWORD)")
	}

	if name == "" {
		if name, err = promptField("Full name", "", validation.ValidateName); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = promptField("Email", "", validation.ValidateEmail); err != nil {
			return err
		}
	}

	confirm := password
	if password == "" {
		if password, confirm, err = promptNewPassword(e); err != nil {
			return err
		}
	}

	credentials := client.RegisterCredentials{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	}
	if err := validation.Struct(credentials); err != nil {
		if pw := validation.ValidatePassword(password); !pw.IsValid {
			printPasswordChecklist(e.out, pw)
		}
		return err
	}

	e.printf("Creating account on %s (%s)...\n", e.server.Alias, e.server.URL)

	if err := e.manager.Register(ctx, credentials); err != nil {
		return err
	}

	e.println("✓ Registration successful!")
	if user := e.manager.User(); user != nil {
		e.printf("  User: %s (%s)\n", user.Name, user.Email)
	}
	if !e.api.Session().HasAccessToken() {
		e.printf("\n%s\n", loginHint)
	}

	return nil
}

// promptNewPassword reads a password until it meets every requirement,
// then asks for the confirmation.
func promptNewPassword(e *env) (string, string, error) {
	for {
		password, err := readPassword(e.out, "Password")
		if err != nil {
			return "", "", err
		}

		result := validation.ValidatePassword(password)
		printPasswordChecklist(e.out, result)
		if password != "" {
			printPasswordStrength(e.out, password)
		}
		if !result.IsValid {
			e.println(result.Message)
			continue
		}

		confirm, err := readPassword(e.out, "Confirm password")
		if err != nil {
			return "", "", err
		}
		if r := validation.ValidatePasswordConfirmation(password, confirm); !r.IsValid {
			e.println(r.Message)
			continue
		}

		return password, confirm, nil
	}
}
