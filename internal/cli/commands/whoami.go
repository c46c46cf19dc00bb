package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/auth"
)

// ErrNotLoggedIn is returned by commands that need a session
var ErrNotLoggedIn = errors.New("not logged in. " + loginHint)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context())
		},
	}
}

func runWhoami(ctx context.Context, opts ...Option) error {
	e, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	// Read before Resolve, which drops a rejected token
	token, err := e.tokens.AccessToken()
	if err != nil {
		return err
	}

	e.manager.Resolve(ctx)

	user := e.manager.User()
	if user == nil {
		return ErrNotLoggedIn
	}

	e.printf("Server: %s (%s)\n", e.server.Alias, e.server.URL)
	e.printf("User:   %s (%s)\n", user.Name, user.Email)
	e.printf("ID:     %s\n", user.ID)
	if user.Avatar != "" {
		e.printf("Avatar: %s\n", user.Avatar)
	}

	// The server may have rotated the token during Resolve
	if current := e.api.Session().AccessToken; current != "" {
		token = current
	}
	info, err := auth.DescribeToken(token)
	if err != nil {
		e.logger.Debug().Err(err).Msg("Access token is not a readable JWT")
		return nil
	}
	if !info.ExpiresAt.IsZero() {
		e.printf("Token:  expires %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
	}

	return nil
}
