package validation

// Strength is a coarse password strength bucket
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// GetPasswordStrength buckets a password by how many criteria it meets
func GetPasswordStrength(password string) Strength {
	if password == "" {
		return StrengthWeak
	}

	switch n := ValidatePassword(password).Satisfied(); {
	case n <= 2:
		return StrengthWeak
	case n <= 4:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}

// Text returns the label shown next to the strength meter
func (s Strength) Text() string {
	switch s {
	case StrengthWeak:
		return "Weak"
	case StrengthMedium:
		return "Medium"
	case StrengthStrong:
		return "Strong"
	default:
		return ""
	}
}
