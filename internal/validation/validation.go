package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError carries the first failing field of a payload, matching the
// response envelope's validation shape.
type FieldError struct {
	Field  string
	Detail string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Detail
}

// Struct validates a request payload and reports only the first failure.
func Struct(payload interface{}) *FieldError {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return &FieldError{
			Field:  lowerFirst(first.Field()),
			Detail: messageFor(first),
		}
	}
	return &FieldError{Field: "payload", Detail: err.Error()}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "eqfield":
		return "does not match " + lowerFirst(fe.Param())
	case "containsany":
		return "missing required characters"
	default:
		return "failed on '" + fe.Tag() + "' validation"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
