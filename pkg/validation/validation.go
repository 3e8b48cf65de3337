// Package validation carries the structured validation result shared by
// every entity validator: a list of field-level problems, returned as a
// value the caller inspects rather than a bare error string.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "voyago/pkg/errors"
)

type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Errors []Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(e), strings.Join(messages, "; "))
}

// Details renders the errors as the AppError details map.
func (e Errors) Details() map[string]any {
	fields := make(map[string]any, len(e))
	for _, err := range e {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

// AsAppError wraps a validator result as the service-facing
// validation failure, preserving per-field details.
func AsAppError(err error) error {
	var verrs Errors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Invalid input", verrs.Details())
	}
	return apperrors.Internal("Validation failed", err)
}

// Translate turns validator/v10 output into field-level messages.
func Translate(errs validator.ValidationErrors) Errors {
	var out Errors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a well-formed email address", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in the form %s", err.Field(), err.Param())
		}
		out = append(out, Error{Field: err.Field(), Message: message})
	}
	return out
}
