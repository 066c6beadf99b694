// Package cookie reads and writes the two cookies of the login flow: the
// short-lived PKCE verifier cookie and the application wide session cookie.
package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openkcm/login-gateway/internal/config"
)

const (
	DefaultPKCEName    = "lg_pkce"
	DefaultSessionName = "lg_session"
)

var ErrNotFound = errors.New("cookie not found")

type Transport struct {
	pkce    config.CookieTemplate
	session config.CookieTemplate

	pkceTTL    time.Duration
	sessionTTL time.Duration
	secure     bool
}

// NewTransport builds the transport from the auth configuration. The PKCE
// cookie is scoped to the callback path unless a path is configured, and
// the session cookie to the application root.
func NewTransport(cfg *config.Auth) (*Transport, error) {
	appURL, err := cfg.AppURL()
	if err != nil {
		return nil, fmt.Errorf("getting application url: %w", err)
	}

	callbackURL, err := cfg.CallbackURL()
	if err != nil {
		return nil, fmt.Errorf("getting callback url: %w", err)
	}

	pkce := cfg.Cookies.PKCE
	if pkce.Name == "" {
		pkce.Name = DefaultPKCEName
	}
	if pkce.Path == "" {
		pkce.Path = callbackURL.Path
	}

	session := cfg.Cookies.Session
	if session.Name == "" {
		session.Name = DefaultSessionName
	}
	if session.Path == "" {
		session.Path = appURL.Path
	}

	if pkce.Name == session.Name {
		return nil, fmt.Errorf("pkce and session cookies must have different names, both are %q", pkce.Name)
	}

	return &Transport{
		pkce:       pkce,
		session:    session,
		pkceTTL:    cfg.PKCETTL,
		sessionTTL: cfg.SessionDuration,
		secure:     cfg.Production,
	}, nil
}

func (t *Transport) SetVerifier(w http.ResponseWriter, verifier string) {
	http.SetCookie(w, t.pkce.ToCookie(verifier, t.pkceTTL, t.secure))
}

// Verifier returns the PKCE verifier from a Cookie header, or ErrNotFound
// when the cookie is absent or empty.
func (t *Transport) Verifier(header string) (string, error) {
	return t.read(header, t.pkce.Name)
}

// ClearVerifier expires the PKCE cookie on the path it was set on.
func (t *Transport) ClearVerifier(w http.ResponseWriter) {
	http.SetCookie(w, t.pkce.ToExpiredCookie(t.secure))
}

func (t *Transport) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.session.ToCookie(token, t.sessionTTL, t.secure))
}

func (t *Transport) Session(header string) (string, error) {
	return t.read(header, t.session.Name)
}

func (t *Transport) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, t.session.ToExpiredCookie(t.secure))
}

// read looks name up in a Cookie header. Every pair is parsed on its own so
// a malformed cookie of another application on the same host does not hide
// ours.
func (t *Transport) read(header, name string) (string, error) {
	for pair := range strings.SplitSeq(header, ";") {
		cookies, err := http.ParseCookie(pair)
		if err != nil || len(cookies) != 1 || cookies[0].Name != name {
			continue
		}
		if cookies[0].Value == "" {
			return "", ErrNotFound
		}
		return cookies[0].Value, nil
	}

	return "", ErrNotFound
}
