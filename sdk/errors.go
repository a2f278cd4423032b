package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the SDK. These can be used with errors.Is()
// to check for specific error conditions.
//
// Example:
//
//	plan, err := client.GetPlan(ctx, "gold")
//	if errors.Is(err, sdk.ErrNotFound) {
//	    // Handle missing plan
//	}
var (
	// ErrInvalidConfig is returned when the configuration is invalid,
	// e.g. a missing auth token or organization id
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownEntity is returned when an entity name is not registered
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNullResponse is returned when the HTTP client produced neither a
	// response nor an error
	ErrNullResponse = errors.New("null data in response processing")

	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")

	// ErrMissingID is returned when an operation needs an entity identifier
	// that is not set
	ErrMissingID = errors.New("entity identifier is not set")

	// ErrPendingError is returned by Load while an earlier failure is still
	// recorded on the entity
	ErrPendingError = errors.New("entity has a pending error")
)

// ErrorType categorizes API failures.
//
// Example:
//
//	var sdkErr *sdk.Error
//	if errors.As(err, &sdkErr) {
//	    switch sdkErr.Type {
//	    case sdk.ErrorTypeTransport:
//	        // Network failure, nothing reached the API
//	    case sdk.ErrorTypeApplication:
//	        // The API answered with a non-zero code
//	    }
//	}
type ErrorType int

const (
	// ErrorTypeUnknown represents an unclassified error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTransport represents failures of the underlying HTTP call
	ErrorTypeTransport
	// ErrorTypeHTTPStatus represents responses with a status code above 201
	ErrorTypeHTTPStatus
	// ErrorTypeApplication represents decoded responses with code != 0
	ErrorTypeApplication
	// ErrorTypeNullResponse represents a missing response object
	ErrorTypeNullResponse
	// ErrorTypeDecode represents response bodies that are not JSON objects
	ErrorTypeDecode
	// ErrorTypeValidation represents invalid input detected before sending
	ErrorTypeValidation
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTransport:
		return "transport"
	case ErrorTypeHTTPStatus:
		return "http status"
	case ErrorTypeApplication:
		return "application"
	case ErrorTypeNullResponse:
		return "null response"
	case ErrorTypeDecode:
		return "decode"
	case ErrorTypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a categorized API failure.
//
// Example:
//
//	var sdkErr *sdk.Error
//	if errors.As(err, &sdkErr) {
//	    fmt.Printf("type=%s status=%d code=%d: %s\n",
//	        sdkErr.Type, sdkErr.StatusCode, sdkErr.Code, sdkErr.Message)
//	}
type Error struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status, when a response was received
	StatusCode int `json:"status_code,omitempty"`
	// Code is the application code from the response envelope
	Code int `json:"code,omitempty"`
	// Message is the reason phrase or the server-provided message
	Message string `json:"message"`
	// RequestID is the X-Request-ID sent with the request
	RequestID string `json:"request_id,omitempty"`
	// Context describes the request that failed
	Context *ErrorContext `json:"context,omitempty"`
	// wrapped is the underlying error, if any
	wrapped error
}

// ErrorContext describes the request that failed.
type ErrorContext struct {
	// Method is the HTTP method used
	Method string `json:"method,omitempty"`
	// URL is the full request URL
	URL string `json:"url,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Context != nil && e.Context.URL != "" {
		return fmt.Sprintf("zoho api %s error: %s (%s %s)", e.Type, e.Message, e.Context.Method, e.Context.URL)
	}
	return fmt.Sprintf("zoho api %s error: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is implements errors.Is
func (e *Error) Is(target error) bool {
	switch {
	case target == ErrNotFound:
		return e.Type == ErrorTypeHTTPStatus && e.StatusCode == http.StatusNotFound
	case target == ErrNullResponse:
		return e.Type == ErrorTypeNullResponse
	}
	return false
}

// WithContext adds request context
func (e *Error) WithContext(ctx *ErrorContext) *Error {
	e.Context = ctx
	return e
}

// NewError creates a new categorized error
func NewError(errType ErrorType, message string, wrapped error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		wrapped: wrapped,
	}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsApplicationError reports whether the API answered with a non-zero code.
func IsApplicationError(err error) bool {
	return hasType(err, ErrorTypeApplication)
}

// IsTransportError reports whether the HTTP call itself failed.
func IsTransportError(err error) bool {
	return hasType(err, ErrorTypeTransport)
}

func hasType(err error, errType ErrorType) bool {
	var sdkErr *Error
	return errors.As(err, &sdkErr) && sdkErr.Type == errType
}

// WrapError wraps an error with a type and message.
// If the error is already an *Error, its message is replaced.
func WrapError(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		sdkErr.Message = message
		return sdkErr
	}

	return NewError(errType, message, err)
}
