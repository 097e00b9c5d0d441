package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrNotFound  = NewNotFoundError("resource", "resource not found")
	ErrInvalidID = NewInvalidIDError("")
	ErrInternal  = NewInternalError("internal server error", nil)
)

// InternalMessage is the only message a client ever sees for an unclassified failure.
const InternalMessage = "Internal server error"

// Violation is a single field-level rule failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError represents a validation failure with field-level details.
// Field and Message always describe the first violation.
type ValidationError struct {
	Field      string
	Message    string
	Violations []Violation
}

// NewValidationError creates a new validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:      field,
		Message:    message,
		Violations: []Violation{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a validation error from an ordered list of violations.
// It returns nil when the list is empty.
func NewValidationErrors(violations []Violation) *ValidationError {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{
		Field:      violations[0].Field,
		Message:    violations[0].Message,
		Violations: violations,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("%s is invalid", e.Field)
	}
	return "validation failed"
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// InvalidIDError reports an identifier the store cannot interpret.
type InvalidIDError struct {
	Value string
}

// NewInvalidIDError creates a new malformed identifier error
func NewInvalidIDError(value string) *InvalidIDError {
	return &InvalidIDError{Value: value}
}

// Error implements the error interface
func (e *InvalidIDError) Error() string {
	return "Invalid ID format"
}

// HTTPStatus returns the HTTP status for this error
func (e *InvalidIDError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser is implemented by errors that know their HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}

// StatusCode walks the error chain and returns the first classified HTTP status.
// Unclassified errors map to 500.
func StatusCode(err error) int {
	var s HTTPStatuser
	if stderrors.As(err, &s) {
		return s.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that is safe to send to a client.
func PublicMessage(err error) string {
	if StatusCode(err) >= http.StatusInternalServerError {
		return InternalMessage
	}

	var s HTTPStatuser
	if stderrors.As(err, &s) {
		if e, ok := s.(error); ok {
			return e.Error()
		}
	}
	return err.Error()
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// IsInvalidID reports whether err is an InvalidIDError
func IsInvalidID(err error) bool {
	var ie *InvalidIDError
	return stderrors.As(err, &ie)
}
