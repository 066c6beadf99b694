package idp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/openkcm/common-sdk/pkg/commoncfg"

	"github.com/openkcm/login-gateway/internal/config"
)

// NewHTTPClient returns the client used for every call to the provider.
// With mTLS client auth the client certificate is presented on each call.
func NewHTTPClient(cfg *config.Provider) (*http.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	switch cfg.ClientAuth.Type {
	case config.ClientAuthMTLS:
		if cfg.ClientAuth.MTLS == nil {
			return nil, errors.New("missing mTLS config")
		}

		tlsConfig, err := commoncfg.LoadMTLSConfig(cfg.ClientAuth.MTLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load mTLS config: %w", err)
		}

		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsConfig

		return &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}, nil
	case config.ClientAuthClientSecret, config.ClientAuthNone, "":
		return &http.Client{Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unknown client auth type %q", cfg.ClientAuth.Type)
	}
}
