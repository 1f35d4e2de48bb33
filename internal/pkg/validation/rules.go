// Package validation checks form input before anything is written. Rules
// run in the order they are declared and the first failing rule's message
// is the one shown to the user.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

var validate = validator.New()

// Common form messages
const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgInvalidEmail   = "Please enter a valid email address"
)

// Form accumulates the first failing rule of a submission
type Form struct {
	message string
}

// NewForm starts a form check
func NewForm() *Form {
	return &Form{}
}

func (f *Form) fail(message string) *Form {
	if f.message == "" {
		f.message = message
	}
	return f
}

// Require fails with message when any of the values is blank
func (f *Form) Require(message string, values ...string) *Form {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return f.fail(message)
		}
	}
	return f
}

// Check fails with message when ok is false
func (f *Form) Check(ok bool, message string) *Form {
	if !ok {
		return f.fail(message)
	}
	return f
}

// Email fails with message when a non-blank value is not an email address
func (f *Form) Email(value, message string) *Form {
	if strings.TrimSpace(value) != "" && !IsEmail(value) {
		return f.fail(message)
	}
	return f
}

// MinLength fails with message when value is shorter than n bytes
func (f *Form) MinLength(value string, n int, message string) *Form {
	if len(value) < n {
		return f.fail(message)
	}
	return f
}

// Contains fails with message when value does not contain substr
func (f *Form) Contains(value, substr, message string) *Form {
	if !strings.Contains(value, substr) {
		return f.fail(message)
	}
	return f
}

// Between fails with message when n is outside [min, max]
func (f *Form) Between(n, min, max int, message string) *Form {
	if n < min || n > max {
		return f.fail(message)
	}
	return f
}

// Err returns the validation error, or nil when every rule passed
func (f *Form) Err() error {
	if f.message == "" {
		return nil
	}
	return apperrors.NewValidationError(f.message)
}

// IsEmail reports whether s is a syntactically valid email address
func IsEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}
