package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeTransport  ErrorType = "TRANSPORT"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// Engine-level sentinel errors. Per the propagation policy, a single
// file failing to decode never aborts a multi-file run; these sentinels
// mark the two conditions that are surfaced to the caller.
var (
	// ErrEmptyResult is returned when the selected file set yields zero
	// rows after projection. It is a user-visible condition, not a crash.
	ErrEmptyResult = errors.New("selected files produced no rows")

	// ErrNoFilesSucceeded is returned when every file in a multi-file
	// run failed to download or decode.
	ErrNoFilesSucceeded = errors.New("no source file could be read")

	// ErrInvalidProfile is returned when a transformation profile is
	// malformed or missing required fields.
	ErrInvalidProfile = errors.New("invalid transformation profile")

	// ErrSupplierUnknown is returned by the store when no supplier
	// record matches the requested slug.
	ErrSupplierUnknown = errors.New("unknown supplier")
)

// SourceReadError reports a file that could not be decoded with any of
// the attempted delimiter/encoding combinations. Callers skip the file
// and continue.
type SourceReadError struct {
	Filename string
	Cause    error
}

// Error implements the error interface
func (e *SourceReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot read source file %s: %v", e.Filename, e.Cause)
	}
	return fmt.Sprintf("cannot read source file %s", e.Filename)
}

// Unwrap allows errors.Is and errors.As to work with SourceReadError
func (e *SourceReadError) Unwrap() error {
	return e.Cause
}

// NewSourceReadError creates a source read failure for a file
func NewSourceReadError(filename string, cause error) *SourceReadError {
	return &SourceReadError{Filename: filename, Cause: cause}
}

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewTransportError creates a transport-related error
func NewTransportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeTransport, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration-related error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType checks whether err is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
