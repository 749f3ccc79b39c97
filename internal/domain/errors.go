package domain

import (
	"errors"
	"fmt"
)

// Error codes shared by domain errors.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"
	CodeForbidden    = "FORBIDDEN"
)

// DomainError is an error carrying a machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError returns an error for invalid input.
func NewValidationError(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

// NewNotFoundError returns an error for a missing entity.
func NewNotFoundError(entity, id string) error {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError returns an error for concurrent modification.
func NewConflictError(msg string) error {
	return &DomainError{Code: CodeConflict, Message: msg}
}

// NewInvalidStateError returns an error for a disallowed state transition.
func NewInvalidStateError(from, to string) error {
	return &DomainError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewForbiddenError returns an error for a disallowed action.
func NewForbiddenError(msg string) error {
	return &DomainError{Code: CodeForbidden, Message: msg}
}

// FieldValidationError reports per-field validation messages.
type FieldValidationError struct {
	Fields map[string]string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %d invalid field(s)", CodeValidation, len(e.Fields))
}

// NewFieldValidationError wraps a field→message map.
func NewFieldValidationError(fields map[string]string) error {
	return &FieldValidationError{Fields: fields}
}

// CodeOf returns the domain code of err, or "" when err is not a domain error.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var fe *FieldValidationError
	if errors.As(err, &fe) {
		return CodeValidation
	}
	return ""
}
