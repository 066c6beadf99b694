package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-jose/go-jose/v4"
	"github.com/openkcm/common-sdk/pkg/oidc"
	"github.com/patrickmn/go-cache"
)

const jwksCachePrefix = "jwks_"

// openIDConfig returns the well-known openid configuration of the issuer.
// The provider keeps the first successful answer.
func (c *OIDCClient) openIDConfig(ctx context.Context) (*oidc.Configuration, error) {
	conf, err := c.provider.GetConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching openid configuration: %w", err)
	}

	if conf.AuthorizationEndpoint == "" || conf.TokenEndpoint == "" {
		return nil, fmt.Errorf("openid configuration of %s lacks authorization or token endpoint", c.issuer)
	}

	return conf, nil
}

// keySet returns the signing keys of the provider. Concurrent misses share
// one fetch, which runs detached from the callers so that a caller giving
// up does not fail the others waiting on it.
func (c *OIDCClient) keySet(ctx context.Context, conf *oidc.Configuration, refresh bool) (*jose.JSONWebKeySet, error) {
	if conf.JwksURI == "" {
		return nil, fmt.Errorf("openid configuration of %s has no jwks_uri", c.issuer)
	}

	key := jwksCachePrefix + conf.JwksURI
	if refresh {
		c.cache.Delete(key)
	} else if v, ok := c.cache.Get(key); ok {
		//nolint:forcetypeassert
		return v.(*jose.JSONWebKeySet), nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		keySet, err := c.fetchKeySet(fetchCtx, conf.JwksURI)
		if err != nil {
			return nil, err
		}

		c.cache.Set(key, keySet, cache.DefaultExpiration)

		return keySet, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for jwks: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		//nolint:forcetypeassert
		return res.Val.(*jose.JSONWebKeySet), nil
	}
}

func (c *OIDCClient) fetchKeySet(ctx context.Context, uri string) (*jose.JSONWebKeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("creating a new HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing an http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, uri)
	}

	var keySet jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return nil, fmt.Errorf("decoding jwks: %w", err)
	}

	return &keySet, nil
}
