package client

import (
	"errors"
	"fmt"
)

// Error types reported by tracker API operations.
const (
	ErrorTypeInvalidInput   = "invalid_input"
	ErrorTypeConnection     = "connection_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypeAuthorization  = "authorization_error"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeRateLimit      = "rate_limit"
	ErrorTypeServer         = "server_error"
	ErrorTypeAPI            = "api_error"
)

// APIError describes a failed tracker request. StatusCode is zero when the
// request never produced a response (bad input, transport failure). Body
// holds a bounded preview of the response body for diagnostics.
type APIError struct {
	Type       string // Type of error (authentication_error, api_error, etc.)
	Message    string // Human-readable error message
	StatusCode int    // HTTP status, zero when no response was received
	Endpoint   string // Request path relative to the base URL
	Body       string // Bounded response body preview
	Err        error  // Underlying error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tracker API error (%s) on %s: status %d: %s", e.Type, e.Endpoint, e.StatusCode, e.Message)
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("tracker API error (%s) on %s: %s", e.Type, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("tracker API error (%s): %s", e.Type, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// typeForStatus maps an HTTP response status onto an error type.
func typeForStatus(status int) string {
	switch {
	case status == 401:
		return ErrorTypeAuthentication
	case status == 403:
		return ErrorTypeAuthorization
	case status == 404:
		return ErrorTypeNotFound
	case status == 429:
		return ErrorTypeRateLimit
	case status >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeAPI
	}
}

// NewInvalidInputError reports a request rejected before it was sent,
// typically missing credentials or an empty identifier.
func NewInvalidInputError(message string) *APIError {
	return &APIError{Type: ErrorTypeInvalidInput, Message: message}
}

// NewConnectionError reports a transport failure with no HTTP response.
func NewConnectionError(endpoint string, err error) *APIError {
	return &APIError{
		Type:     ErrorTypeConnection,
		Message:  "request failed",
		Endpoint: endpoint,
		Err:      err,
	}
}

func isErrorType(err error, errorType string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == errorType
	}
	return false
}

// IsInvalidInputError checks if the error is a client-side validation failure
func IsInvalidInputError(err error) bool {
	return isErrorType(err, ErrorTypeInvalidInput)
}

// IsConnectionError checks if the error is a transport failure
func IsConnectionError(err error) bool {
	return isErrorType(err, ErrorTypeConnection)
}

// IsAuthenticationError checks if the error is related to authentication
func IsAuthenticationError(err error) bool {
	return isErrorType(err, ErrorTypeAuthentication)
}

// IsAuthorizationError checks if the error is related to insufficient permissions
func IsAuthorizationError(err error) bool {
	return isErrorType(err, ErrorTypeAuthorization)
}

// IsNotFoundError checks if the error is related to a resource not being found
func IsNotFoundError(err error) bool {
	return isErrorType(err, ErrorTypeNotFound)
}

// IsRateLimitError checks if the error reports API throttling
func IsRateLimitError(err error) bool {
	return isErrorType(err, ErrorTypeRateLimit)
}

// IsServerError checks if the error reports a tracker-side failure
func IsServerError(err error) bool {
	return isErrorType(err, ErrorTypeServer)
}
