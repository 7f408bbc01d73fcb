package types

import "fmt"

// ErrorCode represents a unified error code across the SDK.
type ErrorCode string

// Transport error codes — everything up to payload acquisition is fail-fast.
const (
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrTransport        ErrorCode = "TRANSPORT_ERROR"
	ErrParse            ErrorCode = "PARSE_ERROR"
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"
)

// Materialization error codes. ErrImportFailure never reaches callers: an
// undecodable payload degrades to the placeholder model instead.
const (
	ErrEmptyPayload  ErrorCode = "EMPTY_PAYLOAD"
	ErrPersistence   ErrorCode = "PERSISTENCE_ERROR"
	ErrImportFailure ErrorCode = "IMPORT_FAILURE"
	ErrPostProcess   ErrorCode = "POST_PROCESS_ERROR"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable. The pipeline never retries on
// its own; callers decide by issuing a fresh Generate call.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// ErrorMessage extracts the human-readable message from an error. Falls back
// to err.Error() for plain errors.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
