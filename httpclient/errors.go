package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a transport failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeBadRequest indicates the server rejected the request (other 4xx).
	ErrCodeBadRequest
	// ErrCodeServer indicates a server-side failure (5xx).
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeBadRequest:
		return "bad_request"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// StatusCode is the HTTP status (0 for transport-level errors).
	StatusCode int
	// Body is the raw response body, when a response was received.
	Body []byte
	// Retryable reports whether another attempt could succeed.
	Retryable bool
	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("httpclient: %s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// newTimeoutError wraps a transport error caused by a deadline.
func newTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Retryable: true, Err: err}
}

// newConnectionError wraps any other transport error.
func newConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Retryable: true, Err: err}
}

// classifyStatus converts a non-2xx status code into a typed error.
// Returns nil for 2xx.
func classifyStatus(statusCode int, body []byte) *Error {
	var code ErrorCode
	retryable := false
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		code = ErrCodeAuth
	case statusCode == 404:
		code = ErrCodeNotFound
	case statusCode >= 400 && statusCode < 500:
		code = ErrCodeBadRequest
	default:
		code = ErrCodeServer
		retryable = true
	}
	return &Error{
		Code:       code,
		StatusCode: statusCode,
		Body:       body,
		Retryable:  retryable,
	}
}

func is(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool { return is(err, ErrCodeTimeout) }

// IsConnection reports whether err is a transport error.
func IsConnection(err error) bool { return is(err, ErrCodeConnection) }

// IsAuth reports whether err is an authentication error.
func IsAuth(err error) bool { return is(err, ErrCodeAuth) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return is(err, ErrCodeNotFound) }

// IsBadRequest reports whether err is a rejected-request error.
func IsBadRequest(err error) bool { return is(err, ErrCodeBadRequest) }

// IsServerError reports whether err is a server-side error.
func IsServerError(err error) bool { return is(err, ErrCodeServer) }

// IsRetryable reports whether another attempt could succeed.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
