package errors

import (
	"errors"
	"fmt"
)

// Code represents an error code for categorizing errors
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates client specified an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested resource was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create a resource that already exists
	CodeAlreadyExists Code = "already_exists"

	// CodeConflict indicates a concurrent or stale modification was rejected
	CodeConflict Code = "conflict"

	// CodeInternal indicates internal system error
	CodeInternal Code = "internal"

	// CodePrerequisiteNotMet indicates a character does not satisfy a rule element's prerequisites
	CodePrerequisiteNotMet Code = "prerequisite_not_met"

	// CodeIllegalSlotAssignment indicates an item cannot occupy the requested slot
	CodeIllegalSlotAssignment Code = "illegal_slot_assignment"

	// CodeUnknownCatalogEntry indicates a reference to an unregistered feat, spell, item, class or race
	CodeUnknownCatalogEntry Code = "unknown_catalog_entry"

	// CodeIncompleteVariableSelection indicates a variable feat is missing its sub-choice
	CodeIncompleteVariableSelection Code = "incomplete_variable_selection"

	// CodeInvalidTransition indicates a progression step whose guard is unmet
	CodeInvalidTransition Code = "invalid_transition"
)

// Error represents an application error with code and metadata
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context, preserving the code of a wrapped *Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var rulesErr *Error
	if errors.As(err, &rulesErr) {
		return &Error{
			Code:    rulesErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(rulesErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Conflictf creates a formatted conflict error
func Conflictf(format string, args ...any) *Error {
	return Newf(CodeConflict, format, args...)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// PrerequisiteNotMetf creates a formatted prerequisite error
func PrerequisiteNotMetf(format string, args ...any) *Error {
	return Newf(CodePrerequisiteNotMet, format, args...)
}

// IllegalSlotAssignmentf creates a formatted slot assignment error
func IllegalSlotAssignmentf(format string, args ...any) *Error {
	return Newf(CodeIllegalSlotAssignment, format, args...)
}

// UnknownCatalogEntry creates an unknown catalog entry error for the given kind and key
func UnknownCatalogEntry(kind, key string) *Error {
	return Newf(CodeUnknownCatalogEntry, "unknown %s '%s'", kind, key).
		WithMeta("kind", kind).
		WithMeta("key", key)
}

// IncompleteVariableSelectionf creates a formatted incomplete selection error
func IncompleteVariableSelectionf(format string, args ...any) *Error {
	return Newf(CodeIncompleteVariableSelection, format, args...)
}

// InvalidTransitionf creates a formatted invalid transition error
func InvalidTransitionf(format string, args ...any) *Error {
	return Newf(CodeInvalidTransition, format, args...)
}

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var rulesErr *Error
	if errors.As(err, &rulesErr) {
		return rulesErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return Is(err, CodeAlreadyExists)
}

// IsConflict checks if the error is a conflict error
func IsConflict(err error) bool {
	return Is(err, CodeConflict)
}

// IsUnknownCatalogEntry checks if the error references an unregistered catalog key
func IsUnknownCatalogEntry(err error) bool {
	return Is(err, CodeUnknownCatalogEntry)
}

// IsPrerequisiteNotMet checks if the error is an unmet prerequisite
func IsPrerequisiteNotMet(err error) bool {
	return Is(err, CodePrerequisiteNotMet)
}

// IsIllegalSlotAssignment checks if the error is a rejected slot assignment
func IsIllegalSlotAssignment(err error) bool {
	return Is(err, CodeIllegalSlotAssignment)
}

// IsIncompleteVariableSelection checks if the error is a missing feat sub-choice
func IsIncompleteVariableSelection(err error) bool {
	return Is(err, CodeIncompleteVariableSelection)
}

// IsInvalidTransition checks if the error is a rejected progression transition
func IsInvalidTransition(err error) bool {
	return Is(err, CodeInvalidTransition)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var rulesErr *Error
	if errors.As(err, &rulesErr) {
		return rulesErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var rulesErr *Error
	if errors.As(err, &rulesErr) {
		return rulesErr.Meta
	}
	return nil
}

// copyMeta creates a copy of the metadata map
func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
