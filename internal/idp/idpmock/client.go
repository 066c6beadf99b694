package idpmock

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/openkcm/login-gateway/internal/idp"
)

const AuthorizationEndpoint = "https://login.example.com/oauth2/v2.0/authorize"

type ClientOption func(*Client)

// Client is an in-memory idp.Client. Codes registered with WithAccount are
// accepted once; any other code is rejected with invalid_grant.
type Client struct {
	mu       sync.Mutex
	accounts map[string]string

	authURLErr, exchangeErr error

	AuthRequests     []idp.AuthRequest
	ExchangeRequests []idp.ExchangeRequest
}

func WithAccount(code, accountID string) ClientOption {
	return func(c *Client) { c.accounts[code] = accountID }
}
func WithAuthURLError(err error) ClientOption {
	return func(c *Client) { c.authURLErr = err }
}
func WithExchangeError(err error) ClientOption {
	return func(c *Client) { c.exchangeErr = err }
}

var _ = idp.Client(&Client{})

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		accounts: make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) AuthCodeURL(_ context.Context, req idp.AuthRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AuthRequests = append(c.AuthRequests, req)
	if c.authURLErr != nil {
		return "", c.authURLErr
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(req.Scopes, " "))
	q.Set("redirect_uri", req.RedirectURI)
	q.Set("code_challenge", req.CodeChallenge)
	q.Set("code_challenge_method", req.CodeChallengeMethod)

	return AuthorizationEndpoint + "?" + q.Encode(), nil
}

func (c *Client) Exchange(_ context.Context, req idp.ExchangeRequest) (idp.TokenResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ExchangeRequests = append(c.ExchangeRequests, req)
	if c.exchangeErr != nil {
		return idp.TokenResult{}, c.exchangeErr
	}

	accountID, ok := c.accounts[req.Code]
	if !ok {
		return idp.TokenResult{}, &idp.ProviderError{
			Code:        "invalid_grant",
			Description: "AADSTS70000: the provided authorization code is invalid or was already redeemed",
			StatusCode:  400,
		}
	}
	delete(c.accounts, req.Code)

	return idp.TokenResult{
		AccountIdentifier: accountID,
		AccessToken:       "access-" + accountID,
	}, nil
}

// ExchangeCount reports how often Exchange was called.
func (c *Client) ExchangeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ExchangeRequests)
}
