package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to handlers. Specific errors wrap one of these so
// handlers can map them with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserDisabled = errors.New("user account is disabled")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrNoFamily     = errors.New("user has not joined a family")
)

var (
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid phone or password")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrFamilyNotFound     = newError(ErrNotFound, "family not found")
	ErrMemberNotFound     = newError(ErrNotFound, "family member not found")
	ErrRecordNotFound     = newError(ErrNotFound, "record not found")
	ErrCategoryNotFound   = newError(ErrNotFound, "category not found")

	ErrPhoneTaken        = newError(ErrConflict, "phone number already registered")
	ErrDuplicateCategory = newError(ErrConflict, "category already exists")
	ErrAlreadyInFamily   = newError(ErrConflict, "user already belongs to a family")

	ErrNotFamilyAdmin     = newError(ErrForbidden, "family admin permission required")
	ErrNotSystemAdmin     = newError(ErrForbidden, "system admin permission required")
	ErrFamilyAccessDenied = newError(ErrForbidden, "resource belongs to another family")
	ErrNotRecordOwner     = newError(ErrForbidden, "only the author or a family admin may modify this record")
	ErrCannotRemoveAdmin  = newError(ErrForbidden, "cannot remove a system admin")
	ErrCannotRemoveSelf   = newError(ErrValidation, "cannot remove yourself from the family")
	ErrWrongPassword      = newError(ErrValidation, "old password is incorrect")
	ErrNotFamilyAdminUser = newError(ErrValidation, "user is not a family admin")
)

// kindError carries a client-facing message and unwraps to its kind.
type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string { return e.message }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

func validationError(format string, args ...interface{}) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}
