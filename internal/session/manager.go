package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	otlpaudit "github.com/openkcm/common-sdk/pkg/otlp/audit"
	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-gateway/internal/config"
	"github.com/openkcm/login-gateway/internal/idp"
	"github.com/openkcm/login-gateway/internal/pkce"
	"github.com/openkcm/login-gateway/internal/serviceerr"
)

const auditUserInitiator = "login gateway"

// DefaultScopes are always requested from the identity provider.
var DefaultScopes = []string{"openid", "profile", "email", "offline_access"}

type Manager struct {
	idp         idp.Client
	pkce        pkce.Source
	codec       *Codec
	revocations Revocations
	audit       *otlpaudit.AuditLogger

	scopes      []string
	callbackURL string
	clientID    string
}

// NewManager creates a session manager. revocations and auditLogger are
// optional.
func NewManager(
	cfg *config.Auth,
	client idp.Client,
	codec *Codec,
	revocations Revocations,
	auditLogger *otlpaudit.AuditLogger,
) (*Manager, error) {
	if client == nil {
		return nil, errors.New("identity provider client is required")
	}
	if codec == nil {
		return nil, errors.New("session codec is required")
	}

	callbackURL, err := cfg.CallbackURL()
	if err != nil {
		return nil, fmt.Errorf("building callback URL: %w", err)
	}

	return &Manager{
		idp:         client,
		codec:       codec,
		revocations: revocations,
		audit:       auditLogger,
		scopes:      Scopes(cfg.Provider.Scopes),
		callbackURL: callbackURL.String(),
		clientID:    cfg.Provider.ClientAuth.ClientID,
	}, nil
}

// Scopes returns the default scopes followed by the extra ones, without
// duplicates.
func Scopes(extra []string) []string {
	scopes := slices.Clone(DefaultScopes)
	for _, s := range extra {
		if s != "" && !slices.Contains(scopes, s) {
			scopes = append(scopes, s)
		}
	}

	return scopes
}

// MakeAuthURI starts a login: it generates a PKCE pair and returns the
// provider authorization URL for its challenge.
func (m *Manager) MakeAuthURI(ctx context.Context) (AuthURI, error) {
	p := m.pkce.PKCE()

	u, err := m.idp.AuthCodeURL(ctx, idp.AuthRequest{
		Scopes:              m.scopes,
		RedirectURI:         m.callbackURL,
		CodeChallenge:       p.Challenge,
		CodeChallengeMethod: p.Method,
	})
	if err != nil {
		return AuthURI{}, fmt.Errorf("building authorization URL: %w", err)
	}

	return AuthURI{URL: u, Verifier: p.Verifier}, nil
}

// FinaliseLogin redeems the authorization code and issues a session token
// for the authenticated account.
func (m *Manager) FinaliseLogin(ctx context.Context, code, verifier string) (LoginResult, error) {
	if code == "" {
		return LoginResult{}, serviceerr.ErrMissingCode
	}
	if verifier == "" {
		return LoginResult{}, serviceerr.ErrMissingVerifier
	}

	correlationID := uuid.NewString()
	ctx = slogctx.With(ctx, "correlation_id", correlationID)

	metadata, err := m.auditMetadata(correlationID)
	if err != nil {
		return LoginResult{}, err
	}

	tokens, err := m.idp.Exchange(ctx, idp.ExchangeRequest{
		Code:         code,
		Scopes:       m.scopes,
		RedirectURI:  m.callbackURL,
		CodeVerifier: verifier,
	})
	if err != nil {
		m.sendUserLoginFailureAudit(ctx, metadata, m.clientID, "failed to exchange code for tokens")
		return LoginResult{}, fmt.Errorf("exchanging code for tokens: %w", err)
	}
	if tokens.AccountIdentifier == "" {
		m.sendUserLoginFailureAudit(ctx, metadata, m.clientID, "no account identifier")
		return LoginResult{}, fmt.Errorf("exchanging code for tokens: %w", idp.ErrMissingAccountIdentifier)
	}

	ctx = slogctx.With(ctx, "account_id", tokens.AccountIdentifier)
	slogctx.Info(ctx, "Exchanged the auth code for tokens")

	token, s, err := m.codec.Issue(tokens.AccountIdentifier)
	if err != nil {
		m.sendUserLoginFailureAudit(ctx, metadata, tokens.AccountIdentifier, "failed to issue session")
		return LoginResult{}, fmt.Errorf("issuing session token: %w", err)
	}

	m.sendUserLoginSuccessAudit(ctx, metadata, tokens.AccountIdentifier)

	return LoginResult{
		Token:     token,
		AccountID: s.AccountID,
		Expiry:    s.Expiry,
	}, nil
}

// Authenticate decodes a session token and rejects revoked sessions.
func (m *Manager) Authenticate(ctx context.Context, token string) (Session, error) {
	s, err := m.codec.Decode(token)
	if err != nil {
		return Session{}, err
	}

	if m.revocations == nil {
		return s, nil
	}

	revoked, err := m.revocations.IsRevoked(ctx, s.ID)
	if err != nil {
		return Session{}, fmt.Errorf("checking revocation list: %w", err)
	}
	if revoked {
		return Session{}, serviceerr.ErrRevoked
	}

	return s, nil
}

// Logout revokes the session carried by token until it expires. Tokens that
// do not decode are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if m.revocations == nil || token == "" {
		return nil
	}

	s, err := m.codec.Decode(token)
	if err != nil {
		slogctx.Debug(ctx, "Ignoring logout for an invalid session", "error", err)
		return nil
	}

	if err := m.revocations.Revoke(ctx, s.ID, s.Expiry); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	slogctx.Info(ctx, "Session revoked", "session_id", s.ID, "account_id", s.AccountID)

	return nil
}

// auditMetadata returns nil metadata when no audit logger is configured.
func (m *Manager) auditMetadata(correlationID string) (otlpaudit.EventMetadata, error) {
	if m.audit == nil {
		return nil, nil
	}

	metadata, err := otlpaudit.NewEventMetadata(auditUserInitiator, m.clientID, correlationID)
	if err != nil {
		return nil, fmt.Errorf("creating audit metadata: %w", err)
	}

	return metadata, nil
}

func (m *Manager) sendUserLoginSuccessAudit(ctx context.Context, metadata otlpaudit.EventMetadata, objectID string) {
	if m.audit == nil {
		return
	}

	event, err := otlpaudit.NewUserLoginSuccessEvent(metadata, objectID, otlpaudit.LOGINMETHOD_OPENIDCONNECT, otlpaudit.MFATYPE_NONE, otlpaudit.USERTYPE_BUSINESS, objectID)
	if err != nil {
		slogctx.Error(ctx, "creating audit log", "error", err)
		return
	}

	if err := m.audit.SendEvent(ctx, event); err != nil {
		slogctx.Error(ctx, "Failed to send audit log for user login success", "error", err)
		return
	}

	slogctx.Debug(ctx, "sent audit log for user login success")
}

// sendUserLoginFailureAudit creates the user-login-failure audit event and
// sends it. Errors are logged, never returned.
func (m *Manager) sendUserLoginFailureAudit(ctx context.Context, metadata otlpaudit.EventMetadata, objectID, reason string) {
	if m.audit == nil {
		return
	}

	event, err := otlpaudit.NewUserLoginFailureEvent(metadata, objectID, otlpaudit.LOGINMETHOD_OPENIDCONNECT, otlpaudit.FailReason(reason), objectID)
	if err != nil {
		slogctx.Error(ctx, "creating audit log", "error", err)
		return
	}

	if err := m.audit.SendEvent(ctx, event); err != nil {
		slogctx.Error(ctx, "Failed to send audit log for user login failure", "error", err)
	}
	slogctx.Debug(ctx, "sent audit log for user login failure")
}

// Duration returns how long newly issued sessions live.
func (m *Manager) Duration() time.Duration {
	return m.codec.duration
}
