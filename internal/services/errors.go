package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

// Error kinds surfaced to callers. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
)

// More specific errors; each matches one of the kinds above.
var (
	ErrUserNotFound      = newDomainError(ErrNotFound, "User does not exist")
	ErrStationNotFound   = newDomainError(ErrNotFound, "Station does not exist")
	ErrEnrolmentNotFound = newDomainError(ErrNotFound, "Student Presention does not exist")
	ErrPresenceNotFound  = newDomainError(ErrNotFound, "Presence does not exist")
	ErrNotAStudent       = newDomainError(ErrNotFound, "Student does not exist")
	ErrRoleEscalation    = newDomainError(ErrUnauthorized, "Only a master can grant the admin role")
	ErrSelfRoleChange    = newDomainError(ErrForbidden, "You cannot change your own role")
	ErrTargetIsAdmin     = newDomainError(ErrForbidden, "User is already an admin")
	ErrInvalidRole       = newDomainError(ErrInvalidInput, "Invalid role")
)

// DomainError carries a client-facing message and matches its Kind with errors.Is
type DomainError struct {
	Kind    error
	Message string
}

func newDomainError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

// NotFoundf builds a NotFound error for a reference kind, e.g. "Disease does not exist"
func NotFoundf(format string, args ...interface{}) error {
	return newDomainError(ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf builds a Conflict error, e.g. "Disease already exists"
func Conflictf(format string, args ...interface{}) error {
	return newDomainError(ErrConflict, fmt.Sprintf(format, args...))
}

// ValidationErrors is the field error list returned by request validation
type ValidationErrors = utils.ValidationErrors

// ValidationError wraps field errors so callers can match ErrValidationFailed
// and still read the individual issues.
type ValidationError struct {
	Errors ValidationErrors
}

func NewValidationError(errs ValidationErrors) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	if first, ok := e.Errors.First(); ok {
		return fmt.Sprintf("validation failed: %s %s", first.Field, first.Message)
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// First returns the first field issue
func (e *ValidationError) First() (utils.ValidationError, bool) {
	return e.Errors.First()
}
