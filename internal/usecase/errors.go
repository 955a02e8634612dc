package usecase

import (
	"errors"
	"fmt"

	"cleaning-service/pkg/utils"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrAuthorization = errors.New("not authorized")
	ErrPersistence   = errors.New("persistence failure")
	ErrNotFound      = errors.New("not found")
)

// Error carries a kind, a caller-facing message naming the failed
// precondition, and optionally the underlying cause.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func validationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func invalidRequest(fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: "validation failed: " + utils.FormatValidationErrors(fields), Fields: fields}
}

func conflictError(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func authorizationError(format string, args ...any) error {
	return &Error{Kind: ErrAuthorization, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// persistenceError wraps a storage failure. Errors that already carry a
// kind pass through untouched.
func persistenceError(op string, err error) error {
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: ErrPersistence, Message: op, Err: err}
}
