package session

import "time"

// Session is the content of a decoded session token.
type Session struct {
	ID        string
	AccountID string
	IssuedAt  time.Time
	Expiry    time.Time
}

// AuthURI is the provider login URL together with the PKCE verifier that
// has to come back on the callback.
type AuthURI struct {
	URL      string
	Verifier string
}

type LoginResult struct {
	Token     string
	AccountID string
	Expiry    time.Time
}
