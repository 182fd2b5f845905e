package http

import (
	"errors"
	"net/http"
	"strings"

	"assessment-client/internal/domain"
	"github.com/go-playground/validator/v10"
)

// RequestError is returned by every Client operation that fails. Message is
// suitable for display as-is; Kind is one of the domain error kinds.
type RequestError struct {
	Op      string
	Status  int // zero when no response was received
	Message string
	Kind    error
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *RequestError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// kindFor classifies a non-2xx status.
func kindFor(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuth
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrTransport
	}
}

// validationMessage turns validator output into "regno is required, password is required".
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, ", ")
}
