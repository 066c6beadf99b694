// Package idp talks to the OpenID Connect identity provider: it builds the
// authorization URL of the login flow and redeems the authorization code.
package idp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMissingAccountIdentifier is returned by Exchange when the provider
// answered but the result does not identify an account.
var ErrMissingAccountIdentifier = errors.New("token result has no account identifier")

type Client interface {
	AuthCodeURL(ctx context.Context, req AuthRequest) (string, error)
	Exchange(ctx context.Context, req ExchangeRequest) (TokenResult, error)
}

type AuthRequest struct {
	Scopes              []string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
}

type ExchangeRequest struct {
	Code         string
	Scopes       []string
	RedirectURI  string
	CodeVerifier string
}

// TokenResult is the outcome of a successful code exchange.
type TokenResult struct {
	AccountIdentifier string
	AccessToken       string
	RefreshToken      string
	IDToken           string
	Expiry            time.Time
}

// ProviderError is an explicit rejection by the identity provider, for
// example an expired or already redeemed authorization code.
type ProviderError struct {
	Code        string
	Description string
	StatusCode  int
}

func (e *ProviderError) Error() string {
	msg := "identity provider rejected the request"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}

	return msg
}
