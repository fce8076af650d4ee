package common

import (
	"net/http"
)

// ErrorResponse is the JSON error body returned by the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomError carries an error code and HTTP status alongside the message.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError creates a new CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// SchemaError reports a corpus file with missing required columns.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return "corpus file is missing required column '" + e.Column + "'"
}

// NewSchemaError creates a SchemaError for the named column.
func NewSchemaError(column string) error {
	return &SchemaError{Column: column}
}

// IsSchemaError checks whether err is a SchemaError.
func IsSchemaError(err error) bool {
	_, ok := err.(*SchemaError)
	return ok
}

// Predefined error codes.
const (
	// Client errors (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeEmptyInput      = "EMPTY_INPUT"       // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// Server errors (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// Predefined errors.
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrEmptyInput      = NewError(ErrCodeEmptyInput, "please provide some ingredients", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timed out", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// Domain errors
	ErrCorpusSchema   = NewError("CORPUS_SCHEMA_INVALID", "corpus file is missing required columns", http.StatusInternalServerError, nil)
	ErrCacheDisabled  = NewError("CACHE_DISABLED", "cache is disabled", http.StatusServiceUnavailable, nil)
	ErrAIServiceError = NewError("AI_SERVICE_ERROR", "AI service error", http.StatusServiceUnavailable, nil)
)
