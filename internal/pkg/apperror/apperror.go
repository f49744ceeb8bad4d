// Package apperror defines the error kinds shared by every domain package.
//
// Domain sentinels wrap one of the kinds so callers can branch on either the
// precise error or its category:
//
//	var ErrShiftNotFound = apperror.NotFound("shift not found")
//
//	errors.Is(err, shift.ErrShiftNotFound) // precise
//	errors.Is(err, apperror.ErrNotFound)   // category
//
// Validation failures are not represented here; they use
// validator.ValidationErrors so the field-level details survive.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks operations on an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks natural-key collisions.
	ErrConflict = errors.New("conflict")

	// ErrDependency marks operations whose precondition on other state is not met,
	// e.g. checkout without check-in or approving a request twice.
	ErrDependency = errors.New("dependency not satisfied")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFound returns a sentinel of kind ErrNotFound.
func NotFound(msg string) error { return &kindError{kind: ErrNotFound, msg: msg} }

// Conflict returns a sentinel of kind ErrConflict.
func Conflict(msg string) error { return &kindError{kind: ErrConflict, msg: msg} }

// Dependency returns a sentinel of kind ErrDependency.
func Dependency(msg string) error { return &kindError{kind: ErrDependency, msg: msg} }

// Kind reports the category of err, or nil when err carries none.
func Kind(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrDependency):
		return ErrDependency
	}
	return nil
}

// Wrapf annotates err with context while keeping it matchable with errors.Is.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
