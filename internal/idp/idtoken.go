package idp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/openkcm/common-sdk/pkg/oidc"
)

const clockSkew = time.Minute

var defaultSigningAlgs = []jose.SignatureAlgorithm{jose.RS256}

// verifyIDToken checks signature, issuer, audience and validity period of
// the ID token and returns all of its claims. The key set is fetched again
// once when no cached key verifies the token, to follow key rotation.
func (c *OIDCClient) verifyIDToken(ctx context.Context, openidConf *oidc.Configuration, raw string) (map[string]any, error) {
	algs := defaultSigningAlgs
	if len(openidConf.IDTokenSigningAlgValuesSupported) > 0 {
		algs = make([]jose.SignatureAlgorithm, 0, len(openidConf.IDTokenSigningAlgValuesSupported))
		for _, alg := range openidConf.IDTokenSigningAlgValuesSupported {
			algs = append(algs, jose.SignatureAlgorithm(alg))
		}
	}

	token, err := jwt.ParseSigned(raw, algs)
	if err != nil {
		return nil, fmt.Errorf("parsing id token: %w", err)
	}

	var (
		standardClaims jwt.Claims
		allClaims      map[string]any
	)

	verified := false
	for _, refresh := range []bool{false, true} {
		keySet, err := c.keySet(ctx, openidConf, refresh)
		if err != nil {
			return nil, fmt.Errorf("getting jwks for a provider: %w", err)
		}

		if err := token.Claims(keySet, &standardClaims, &allClaims); err == nil {
			verified = true
			break
		}
	}
	if !verified {
		return nil, errors.New("id token signature does not match any provider key")
	}

	issuer := openidConf.Issuer
	if issuer == "" {
		issuer = c.issuer
	}

	err = standardClaims.ValidateWithLeeway(jwt.Expected{
		Issuer:      issuer,
		AnyAudience: jwt.Audience{c.clientID},
		Time:        c.now(),
	}, clockSkew)
	if err != nil {
		return nil, fmt.Errorf("validating id token claims: %w", err)
	}

	return allClaims, nil
}
