package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/client"
	"github.com/finboard-dev/finboard/internal/validation"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

func newProfileUpdateCmd() *cobra.Command {
	var name, avatar string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your name or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update client.UserUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("avatar") {
				update.Avatar = &avatar
			}
			return runProfileUpdate(cmd.Context(), update)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "New avatar URL")

	return cmd
}

func runProfileUpdate(ctx context.Context, update client.UserUpdate, opts ...Option) error {
	if update.Name == nil && update.Avatar == nil {
		return fmt.Errorf("nothing to update (use --name or --avatar)")
	}
	if update.Name != nil {
		if r := validation.ValidateName(*update.Name); !r.IsValid {
			return errors.New(r.Message)
		}
	}

	e, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.api.Session().HasAccessToken() {
		return ErrNotLoggedIn
	}

	resp, err := e.api.UpdateUser(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if err := envelopeError("failed to update profile", resp); err != nil {
		return err
	}

	e.println("✓ Profile updated")
	if resp.Data != nil {
		e.printf("  User: %s (%s)\n", resp.Data.Name, resp.Data.Email)
	}
	return nil
}
