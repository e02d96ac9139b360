package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
	ErrConcurrencyConflict = errors.New("record was modified concurrently")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrAccessDenied = errors.New("access denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Student errors
var (
	ErrStudentNotFound           = errors.New("student not found")
	ErrStudentNumberAlreadyTaken = errors.New("student number already taken")
)

// Teacher errors
var (
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrTeacherAssigned    = errors.New("teacher is still assigned to a course")
	ErrTeacherNotOnCourse = errors.New("teacher is not assigned to this course")
)

// Course errors
var (
	ErrCourseNotFound = errors.New("course not found")
)

// Enrollment errors
var (
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrDuplicateEnrollment = errors.New("student already enrolled in course")
)

// NewNotFoundError creates a new custom error for a missing resource with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewAccessDeniedError creates a new custom error for access denied with a message
func NewAccessDeniedError(message string) error {
	return &CustomError{
		Err:     ErrAccessDenied,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a new custom error tagged with the offending field
func NewValidationError(field, message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// FieldOf returns the field name an error is tagged with, or "" when untagged.
func FieldOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}
