package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is the first field that failed struct validation
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// engine returns the shared validator with the credential tags registered
func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterValidation("finemail", func(fl validator.FieldLevel) bool {
			return ValidateEmail(fl.Field().String()).IsValid
		})
		validate.RegisterValidation("finname", func(fl validator.FieldLevel) bool {
			return ValidateName(fl.Field().String()).IsValid
		})
		validate.RegisterValidation("finpassword", func(fl validator.FieldLevel) bool {
			return ValidatePassword(fl.Field().String()).IsValid
		})
	})
	return validate
}

// Struct validates a credentials struct carrying finemail/finname/finpassword tags.
// Fields are checked in declaration order and the first failure is returned.
func Struct(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate %T: %w", v, err)
	}

	fe := fieldErrs[0]
	return &FieldError{Field: fe.Field(), Message: messageFor(fe)}
}

func messageFor(fe validator.FieldError) string {
	value, _ := fe.Value().(string)

	switch fe.Tag() {
	case "finemail":
		return ValidateEmail(value).Message
	case "finname":
		return ValidateName(value).Message
	case "finpassword":
		return ValidatePassword(value).Message
	case "eqfield":
		return "Passwords do not match"
	case "required":
		return requiredMessage(fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func requiredMessage(field string) string {
	switch field {
	case "Email":
		return "Email is required"
	case "Password":
		return "Password is required"
	case "Name":
		return "Name is required"
	case "ConfirmPassword":
		return "Please confirm your password"
	case "Code":
		return "Authorization code is required"
	default:
		return field + " is required"
	}
}
