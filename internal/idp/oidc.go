package idp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/oidc"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-gateway/internal/config"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = time.Hour
)

// DefaultAccountClaims identify an account by the subject of the ID token.
var DefaultAccountClaims = []string{"sub"}

// OIDCClient implements Client against an OpenID Connect provider found
// through discovery. Provider metadata and signing keys are cached.
type OIDCClient struct {
	issuer              string
	clientID            string
	clientSecret        string
	authStyle           oauth2.AuthStyle
	accountClaims       []string
	authorizeParameters map[string]string
	timeout             time.Duration

	provider   *oidc.Provider
	httpClient *http.Client
	cache      *cache.Cache
	group      singleflight.Group
	now        func() time.Time
}

var _ Client = (*OIDCClient)(nil)

func NewOIDCClient(cfg *config.Provider, httpClient *http.Client) (*OIDCClient, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if cfg.ClientAuth.ClientID == "" {
		return nil, errors.New("client id is required")
	}

	var secret string
	authStyle := oauth2.AuthStyleInParams
	if cfg.ClientAuth.Type == config.ClientAuthClientSecret {
		b, err := commoncfg.LoadValueFromSourceRef(cfg.ClientAuth.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("loading client secret: %w", err)
		}

		secret = string(b)
		authStyle = oauth2.AuthStyleAutoDetect
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ttl := cfg.JWKSCacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	accountClaims := cfg.AccountClaims
	if len(accountClaims) == 0 {
		accountClaims = DefaultAccountClaims
	}

	provider, err := oidc.NewProvider(cfg.Issuer, []string{cfg.ClientAuth.ClientID},
		oidc.WithAllowHttpScheme(cfg.AllowHTTPScheme),
		oidc.WithPublicHTTPClient(httpClient),
		oidc.WithSecureHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("creating oidc provider: %w", err)
	}

	return &OIDCClient{
		issuer:              cfg.Issuer,
		clientID:            cfg.ClientAuth.ClientID,
		clientSecret:        secret,
		authStyle:           authStyle,
		accountClaims:       accountClaims,
		authorizeParameters: cfg.AuthorizeParameters,
		timeout:             timeout,
		provider:            provider,
		httpClient:          httpClient,
		cache:               cache.New(ttl, 2*ttl),
		now:                 time.Now,
	}, nil
}

// AuthCodeURL returns the authorization endpoint URL the browser is sent to.
func (c *OIDCClient) AuthCodeURL(ctx context.Context, req AuthRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	openidConf, err := c.openIDConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("getting an openid config: %w", err)
	}

	u, err := url.Parse(openidConf.AuthorizationEndpoint)
	if err != nil {
		return "", fmt.Errorf("parsing authorisation endpoint url: %w", err)
	}

	q := u.Query()
	for name, value := range c.authorizeParameters {
		q.Set(name, value)
	}
	q.Set("scope", strings.Join(req.Scopes, " "))
	q.Set("response_type", "code")
	q.Set("client_id", c.clientID)
	q.Set("code_challenge", req.CodeChallenge)
	q.Set("code_challenge_method", req.CodeChallengeMethod)
	q.Set("redirect_uri", req.RedirectURI)

	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Exchange redeems the authorization code and verifies the returned ID
// token. A rejection by the provider is returned as *ProviderError.
func (c *OIDCClient) Exchange(ctx context.Context, req ExchangeRequest) (TokenResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	openidConf, err := c.openIDConfig(ctx)
	if err != nil {
		return TokenResult{}, fmt.Errorf("getting an openid config: %w", err)
	}

	oauthConf := &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   openidConf.AuthorizationEndpoint,
			TokenURL:  openidConf.TokenEndpoint,
			AuthStyle: c.authStyle,
		},
		RedirectURL: req.RedirectURI,
		Scopes:      req.Scopes,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := oauthConf.Exchange(ctx, req.Code,
		oauth2.VerifierOption(req.CodeVerifier),
		oauth2.SetAuthURLParam("scope", strings.Join(req.Scopes, " ")),
	)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return TokenResult{}, toProviderError(retrieveErr)
		}

		return TokenResult{}, fmt.Errorf("exchanging code for tokens: %w", err)
	}

	slogctx.Debug(ctx, "Exchanged the auth code for tokens")

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return TokenResult{}, fmt.Errorf("token response has no id_token: %w", ErrMissingAccountIdentifier)
	}

	claims, err := c.verifyIDToken(ctx, openidConf, rawIDToken)
	if err != nil {
		return TokenResult{}, fmt.Errorf("verifying id token: %w", err)
	}

	accountID, err := c.accountIdentifier(claims)
	if err != nil {
		return TokenResult{}, err
	}

	return TokenResult{
		AccountIdentifier: accountID,
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
		IDToken:           rawIDToken,
		Expiry:            token.Expiry,
	}, nil
}

func (c *OIDCClient) accountIdentifier(claims map[string]any) (string, error) {
	parts := make([]string, 0, len(c.accountClaims))
	for _, name := range c.accountClaims {
		value, _ := claims[name].(string)
		if value == "" {
			return "", fmt.Errorf("id token claim %q is empty: %w", name, ErrMissingAccountIdentifier)
		}
		parts = append(parts, value)
	}

	return strings.Join(parts, "."), nil
}

func toProviderError(err *oauth2.RetrieveError) *ProviderError {
	perr := &ProviderError{
		Code:        err.ErrorCode,
		Description: err.ErrorDescription,
	}
	if err.Response != nil {
		perr.StatusCode = err.Response.StatusCode
	}

	return perr
}
