// Package serviceerr defines the errors exposed to HTTP clients. The codes
// follow RFC 6749 where one applies.
package serviceerr

import (
	"errors"
	"net/http"
)

type Code string

const (
	// RFC6749 Authorization errors
	CodeInvalidRequest Code = "invalid_request"
	CodeServerError    Code = "server_error"

	// Custom codes
	CodeUnknown         Code = "unknown"
	CodeUnauthorized    Code = "unauthorized"
	CodeLoginFailed     Code = "login_failed"
	CodeMissingVerifier Code = "missing_pkce_verifier"
	CodeMissingCode     Code = "missing_authorization_code"
)

// Error is an error that is safe to show to a client.
type Error struct {
	Err         Code
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest, CodeMissingVerifier, CodeMissingCode:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrInvalidRequest = &Error{Err: CodeInvalidRequest, Description: "malformed request parameters"}
	ErrServerError    = &Error{Err: CodeServerError}

	ErrUnknown      = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrUnauthorized = &Error{Err: CodeUnauthorized, Description: "no valid session, please log in"}

	ErrMissingVerifier = &Error{
		Err:         CodeMissingVerifier,
		Description: "missing PKCE verifier, please start again at the login page",
	}
	ErrMissingCode = &Error{
		Err:         CodeMissingCode,
		Description: "missing authorization code, please start again at the login page",
	}
	ErrLoginUnavailable = &Error{
		Err:         CodeLoginFailed,
		Description: "login could not be started, please try again",
	}
	ErrLoginFailed = &Error{
		Err:         CodeLoginFailed,
		Description: "authentication failed, please try logging in again",
	}
)

// Sentinel errors shared between packages. They are never shown to clients.
var (
	ErrRevoked = errors.New("session revoked")
)
