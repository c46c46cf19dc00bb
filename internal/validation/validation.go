// Package validation checks user-entered credentials before they are sent
// to the API. The rules mirror the ones the web dashboard applies.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxEmailLength  = 254
	maxDomainLength = 253
	minPasswordLen  = 8
	minNameLength   = 2
	maxNameLength   = 50
)

// whitespace is a character-class body matching what browsers treat as
// whitespace: ASCII space characters plus Unicode space separators.
const whitespace = `\s\x0B\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	emailRegex  = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	domainRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	tldRegex    = regexp.MustCompile(`\.[a-zA-Z]{2,}$`)

	invalidEmailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\.`),
		regexp.MustCompile(`\.$`),
		regexp.MustCompile(`\.\.`),
		regexp.MustCompile(`@\.`),
		regexp.MustCompile(`\.@`),
		regexp.MustCompile(`^@`),
		regexp.MustCompile(`@$`),
		regexp.MustCompile(`@@`),
		regexp.MustCompile("[" + whitespace + "]"),
	}

	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`\d`)
	specialCharRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)

	nameRegex       = regexp.MustCompile("^[a-zA-ZÀ-ÿ" + whitespace + `\-'.]+$`)
	nameSpacesRegex = regexp.MustCompile("[" + whitespace + "]{2,}")
	nameEdgesRegex  = regexp.MustCompile("^[" + whitespace + `\-']|[` + whitespace + `\-']$`)
	nameLetterRegex = regexp.MustCompile(`[a-zA-ZÀ-ÿ]`)
)

const invalidEmailMessage = "Please enter a valid email address"

// Result is the outcome of a single field check
type Result struct {
	IsValid bool
	Message string
}

// PasswordResult reports each password criterion alongside the overall result
type PasswordResult struct {
	Result
	HasMinLength   bool
	HasUppercase   bool
	HasLowercase   bool
	HasNumber      bool
	HasSpecialChar bool
}

// Satisfied returns how many of the five criteria hold
func (p PasswordResult) Satisfied() int {
	n := 0
	for _, ok := range []bool{p.HasMinLength, p.HasUppercase, p.HasLowercase, p.HasNumber, p.HasSpecialChar} {
		if ok {
			n++
		}
	}
	return n
}

func valid() Result {
	return Result{IsValid: true}
}

func invalid(message string) Result {
	return Result{IsValid: false, Message: message}
}

// ValidateEmail checks the address format, length and domain
func ValidateEmail(email string) Result {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return invalid("Email is required")
	}

	if utf8.RuneCountInString(trimmed) > maxEmailLength {
		return invalid("Email address is too long (maximum 254 characters)")
	}

	if !emailRegex.MatchString(trimmed) {
		return invalid(invalidEmailMessage)
	}

	for _, pattern := range invalidEmailPatterns {
		if pattern.MatchString(trimmed) {
			return invalid(invalidEmailMessage)
		}
	}

	parts := strings.Split(trimmed, "@")
	if len(parts) != 2 {
		return invalid(invalidEmailMessage)
	}

	domain := parts[1]
	if utf8.RuneCountInString(domain) > maxDomainLength {
		return invalid("Email domain is too long")
	}

	if !domainRegex.MatchString(domain) || !tldRegex.MatchString(domain) {
		return invalid(invalidEmailMessage)
	}

	return valid()
}

// ValidatePassword evaluates the five password criteria
func ValidatePassword(password string) PasswordResult {
	if password == "" {
		return PasswordResult{Result: invalid("Password is required")}
	}

	res := PasswordResult{
		HasMinLength:   utf8.RuneCountInString(password) >= minPasswordLen,
		HasUppercase:   uppercaseRegex.MatchString(password),
		HasLowercase:   lowercaseRegex.MatchString(password),
		HasNumber:      digitRegex.MatchString(password),
		HasSpecialChar: specialCharRegex.MatchString(password),
	}

	if res.Satisfied() == 5 {
		res.Result = valid()
		return res
	}

	var missing []string
	if !res.HasMinLength {
		missing = append(missing, "at least 8 characters")
	}
	if !res.HasUppercase {
		missing = append(missing, "one uppercase letter")
	}
	if !res.HasLowercase {
		missing = append(missing, "one lowercase letter")
	}
	if !res.HasNumber {
		missing = append(missing, "one number")
	}
	if !res.HasSpecialChar {
		missing = append(missing, "one special character")
	}

	res.Result = invalid("Password must contain " + strings.Join(missing, ", "))
	return res
}

// ValidatePasswordConfirmation checks that the confirmation matches
func ValidatePasswordConfirmation(password, confirmPassword string) Result {
	if confirmPassword == "" {
		return invalid("Please confirm your password")
	}

	if password != confirmPassword {
		return invalid("Passwords do not match")
	}

	return valid()
}

// ValidateName checks a display name
func ValidateName(name string) Result {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return invalid("Name is required")
	}

	length := utf8.RuneCountInString(trimmed)
	if length < minNameLength {
		return invalid("Name must be at least 2 characters long")
	}
	if length > maxNameLength {
		return invalid("Name must be less than 50 characters")
	}

	if !nameRegex.MatchString(trimmed) {
		return invalid("Name can only contain letters, spaces, hyphens, apostrophes, and dots")
	}

	if nameSpacesRegex.MatchString(trimmed) {
		return invalid("Name cannot contain consecutive spaces")
	}

	if nameEdgesRegex.MatchString(trimmed) {
		return invalid("Name cannot start or end with spaces, hyphens, or apostrophes")
	}

	if !nameLetterRegex.MatchString(trimmed) {
		return invalid("Name must contain at least one letter")
	}

	return valid()
}
