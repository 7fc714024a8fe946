package cloudshell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/qualisystems/cloudshell-rest-go/httpclient"
)

// ErrorCode classifies API failures by the failing operation.
type ErrorCode int

const (
	// CodeAuthentication indicates a failed login.
	CodeAuthentication ErrorCode = iota
	// CodeShellUpload indicates the server rejected a new shell
	// (duplicate name, invalid package).
	CodeShellUpload
	// CodeShellUpdate indicates the server rejected a shell update.
	CodeShellUpdate
	// CodeShellDelete indicates a shell could not be deleted.
	CodeShellDelete
	// CodeShellNotFound indicates the named shell does not exist.
	CodeShellNotFound
	// CodePackageImport indicates the server rejected an imported package.
	CodePackageImport
	// CodePackageNotFound indicates the named package does not exist.
	CodePackageNotFound
	// CodeFeatureUnavailable indicates the server predates the requested
	// endpoint. Old CloudShell versions answer 404 for endpoints they do
	// not serve; that heuristic is preserved here.
	CodeFeatureUnavailable
	// CodeAPI is any other API failure.
	CodeAPI
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case CodeAuthentication:
		return "authentication"
	case CodeShellUpload:
		return "shell_upload"
	case CodeShellUpdate:
		return "shell_update"
	case CodeShellDelete:
		return "shell_delete"
	case CodeShellNotFound:
		return "shell_not_found"
	case CodePackageImport:
		return "package_import"
	case CodePackageNotFound:
		return "package_not_found"
	case CodeFeatureUnavailable:
		return "feature_unavailable"
	case CodeAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error is a classified CloudShell API error. It carries the HTTP status
// and the server's message when a response was received.
type Error struct {
	// Code classifies the error by failing operation.
	Code ErrorCode
	// StatusCode is the HTTP status code, 0 when none applies.
	StatusCode int
	// Message is the server-provided message, possibly empty.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("cloudshell: %s", e.Code)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// newAPIError builds an Error from a classified HTTP-layer error.
func newAPIError(code ErrorCode, he *httpclient.Error) *Error {
	return &Error{
		Code:       code,
		StatusCode: he.StatusCode,
		Message:    strings.TrimSpace(string(he.Body)),
		Err:        he,
	}
}

// statusMap routes specific HTTP status codes to error codes.
type statusMap map[int]ErrorCode

// mapError translates an HTTP-layer error into a domain error. Transport
// failures (no HTTP status) propagate unchanged, per the API contract.
func mapError(err error, overrides statusMap, fallback ErrorCode) error {
	if err == nil {
		return nil
	}
	var he *httpclient.Error
	if !errors.As(err, &he) || he.StatusCode == 0 {
		return err
	}
	if code, ok := overrides[he.StatusCode]; ok {
		return newAPIError(code, he)
	}
	return newAPIError(fallback, he)
}

func is(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsAuthentication reports whether err is a failed login.
func IsAuthentication(err error) bool { return is(err, CodeAuthentication) }

// IsShellUpload reports whether err is a rejected shell upload.
func IsShellUpload(err error) bool { return is(err, CodeShellUpload) }

// IsShellUpdate reports whether err is a rejected shell update.
func IsShellUpdate(err error) bool { return is(err, CodeShellUpdate) }

// IsShellDelete reports whether err is a failed shell delete.
func IsShellDelete(err error) bool { return is(err, CodeShellDelete) }

// IsShellNotFound reports whether err means the shell does not exist.
func IsShellNotFound(err error) bool { return is(err, CodeShellNotFound) }

// IsPackageImport reports whether err is a rejected package import.
func IsPackageImport(err error) bool { return is(err, CodePackageImport) }

// IsPackageNotFound reports whether err means the package does not exist.
func IsPackageNotFound(err error) bool { return is(err, CodePackageNotFound) }

// IsFeatureUnavailable reports whether err means the server is too old for
// the requested endpoint.
func IsFeatureUnavailable(err error) bool { return is(err, CodeFeatureUnavailable) }
