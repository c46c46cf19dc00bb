package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/finboard-dev/finboard/internal/validation"
)

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptField asks for a value, re-prompting until check passes.
// def pre-fills the input when non-empty.
func promptField(label, def string, check func(string) validation.Result) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: def != "",
		Validate: func(input string) error {
			if r := check(input); !r.IsValid {
				return errors.New(r.Message)
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt cancelled: %w", label, err)
	}
	return value, nil
}

// readPassword reads a password without echo
func readPassword(out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

var (
	passStyle = promptui.Styler(promptui.FGGreen)
	failStyle = promptui.Styler(promptui.FGRed)
)

// printPasswordChecklist shows which password requirements are met
func printPasswordChecklist(out io.Writer, result validation.PasswordResult) {
	items := []struct {
		label string
		ok    bool
	}{
		{"At least 8 characters", result.HasMinLength},
		{"One uppercase letter", result.HasUppercase},
		{"One lowercase letter", result.HasLowercase},
		{"One number", result.HasNumber},
		{"One special character", result.HasSpecialChar},
	}

	fmt.Fprintln(out, "Password requirements:")
	for _, item := range items {
		if item.ok {
			fmt.Fprintf(out, "  %s %s\n", passStyle("✓"), item.label)
		} else {
			fmt.Fprintf(out, "  %s %s\n", failStyle("✗"), item.label)
		}
	}
}

func strengthStyle(s validation.Strength) func(interface{}) string {
	switch s {
	case validation.StrengthStrong:
		return promptui.Styler(promptui.FGGreen, promptui.FGBold)
	case validation.StrengthMedium:
		return promptui.Styler(promptui.FGYellow)
	default:
		return promptui.Styler(promptui.FGRed)
	}
}

// printPasswordStrength shows the coloured strength line
func printPasswordStrength(out io.Writer, password string) {
	strength := validation.GetPasswordStrength(password)
	fmt.Fprintf(out, "Password strength: %s\n", strengthStyle(strength)(strength.Text()))
}
