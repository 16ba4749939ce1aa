package service

import (
	"errors"
	"fmt"

	"github.com/videotube/videotube-api/internal/db"
)

// ValidationError reports a missing or malformed argument. It is raised
// before any store access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UnauthorizedError reports a missing or invalid viewer identity.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// ForbiddenError reports a viewer acting on something they do not own.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ConflictError reports a uniqueness violation on create.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ProcessingError represents a storage or unexpected failure.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ProcessingError struct {
	Message string
	Cause   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string, id fmt.Stringer) error {
	return &NotFoundError{Resource: resource, ID: id.String()}
}

func forbidden(action string) error {
	return &ForbiddenError{Message: "you are not allowed to " + action}
}

// storeError converts a repository error into the service taxonomy. Errors
// that already belong to it pass through unchanged.
func storeError(err error, message, resource string, id fmt.Stringer) error {
	if err == nil {
		return nil
	}
	if isServiceError(err) {
		return err
	}
	switch {
	case db.IsNotFound(err):
		return notFound(resource, id)
	case db.IsDuplicateKey(err):
		return &ConflictError{Message: fmt.Sprintf("%s already exists", resource)}
	case db.IsForeignKeyViolation(err):
		return &NotFoundError{Resource: "referenced entity"}
	case db.IsCheckViolation(err):
		return &ValidationError{Message: fmt.Sprintf("invalid %s value", resource)}
	}
	return &ProcessingError{Message: message, Cause: err}
}

func isServiceError(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
		ue *UnauthorizedError
		fe *ForbiddenError
		ce *ConflictError
		pe *ProcessingError
	)
	return errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ue) ||
		errors.As(err, &fe) || errors.As(err, &ce) || errors.As(err, &pe)
}
