package idp_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/require"
)

const testClientID = "my-client-id"

// fakeProvider is a minimal OpenID provider. Codes starting with "bad" are
// rejected with invalid_grant.
type fakeProvider struct {
	*httptest.Server

	mu         sync.Mutex
	key        *rsa.PrivateKey
	kid        string
	claims     map[string]any
	noIDToken  bool
	tokenDelay time.Duration
	jwksDelay  time.Duration
	lastForm   url.Values

	discoveryHits atomic.Int32
	jwksHits      atomic.Int32
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	p := &fakeProvider{
		key: newKey(t),
		kid: "key-1",
	}
	p.claims = map[string]any{"sub": "acct-42"}

	p.Server = httptest.NewServer(http.HandlerFunc(p.serveHTTP))
	t.Cleanup(p.Close)

	return p
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return key
}

func (p *fakeProvider) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/.well-known/jwks.json" {
		p.mu.Lock()
		delay := p.jwksDelay
		p.mu.Unlock()
		time.Sleep(delay)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch r.URL.Path {
	case "/.well-known/openid-configuration":
		p.discoveryHits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{
			"issuer":                                p.URL,
			"authorization_endpoint":                p.URL + "/oauth2/authorize",
			"token_endpoint":                        p.URL + "/oauth2/token",
			"jwks_uri":                              p.URL + "/.well-known/jwks.json",
			"id_token_signing_alg_values_supported": []string{"RS256"},
			"code_challenge_methods_supported":      []string{"S256"},
		})
	case "/.well-known/jwks.json":
		p.jwksHits.Add(1)
		writeJSON(w, http.StatusOK, jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
			Key:       &p.key.PublicKey,
			KeyID:     p.kid,
			Algorithm: string(jose.RS256),
			Use:       "sig",
		}}})
	case "/oauth2/token":
		if p.tokenDelay > 0 {
			time.Sleep(p.tokenDelay)
		}
		_ = r.ParseForm()
		p.lastForm = r.PostForm

		if code := r.PostForm.Get("code"); len(code) >= 3 && code[:3] == "bad" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "AADSTS70008: The provided authorization code has expired.",
			})
			return
		}

		resp := map[string]any{
			"access_token":  "access-token",
			"refresh_token": "refresh-token",
			"token_type":    "Bearer",
			"expires_in":    3600,
		}
		if !p.noIDToken {
			resp["id_token"] = p.signIDToken(p.key, p.kid, p.claims)
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.NotFound(w, r)
	}
}

func (p *fakeProvider) signIDToken(key *rsa.PrivateKey, kid string, extra map[string]any) string {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: jose.JSONWebKey{Key: key, KeyID: kid}},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		panic(err)
	}

	now := time.Now()
	standard := jwt.Claims{
		Issuer:   p.URL,
		Audience: jwt.Audience{testClientID},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(time.Hour)),
	}

	raw, err := jwt.Signed(signer).Claims(standard).Claims(extra).Serialize()
	if err != nil {
		panic(err)
	}

	return raw
}

func (p *fakeProvider) set(fn func(p *fakeProvider)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

func (p *fakeProvider) form() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastForm
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
