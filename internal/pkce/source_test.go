package pkce

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

var unreserved = regexp.MustCompile(`^[A-Za-z0-9\-._~]{43,128}$`)

func TestSource_PKCE(t *testing.T) {
	p := Source{}
	pkce := p.PKCE()
	assert.NotEmpty(t, pkce.Verifier, "Empty pkce verifier")
	assert.NotEmpty(t, pkce.Challenge, "Empty pkce challenge")
	assert.Equal(t, MethodS256, pkce.Method, "Unexpected PKCE method")
	assert.Regexp(t, unreserved, pkce.Verifier)
	assert.Equal(t, S256Challenge(pkce.Verifier), pkce.Challenge)
	assert.NotContains(t, pkce.Challenge, "=")
}

func TestS256Challenge(t *testing.T) {
	// RFC 7636, Appendix B
	const (
		verifier  = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		challenge = "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	)

	assert.Equal(t, challenge, S256Challenge(verifier))
	assert.Equal(t, S256Challenge(verifier), S256Challenge(verifier), "challenge must be deterministic")
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(verifier), S256Challenge(verifier))
}

func TestSource_PKCE_Uniqueness(t *testing.T) {
	p := Source{}
	seen := make(map[string]struct{})
	for range 1000 {
		v := p.PKCE().Verifier
		_, dup := seen[v]
		assert.False(t, dup, "duplicate verifier generated")
		seen[v] = struct{}{}
	}
}
