package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/valkey-io/valkey-go"

	otlpaudit "github.com/openkcm/common-sdk/pkg/otlp/audit"
	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-gateway/internal/business/server"
	"github.com/openkcm/login-gateway/internal/config"
	"github.com/openkcm/login-gateway/internal/cookie"
	"github.com/openkcm/login-gateway/internal/idp"
	"github.com/openkcm/login-gateway/internal/session"
	sessionmemory "github.com/openkcm/login-gateway/internal/session/memory"
	sessionvalkey "github.com/openkcm/login-gateway/internal/session/valkey"
)

// Main starts the public HTTP server and blocks until ctx is done.
func Main(ctx context.Context, cfg *config.Config) error {
	sessionManager, cookies, closeFn, err := initSessionManager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the session manager: %w", err)
	}
	defer closeFn()

	return server.StartHTTPServer(ctx, cfg, sessionManager, cookies)
}

func initSessionManager(ctx context.Context, cfg *config.Config) (_ *session.Manager, _ *cookie.Transport, closeFn func(), _ error) {
	codec, err := codecFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating session codec: %w", err)
	}

	cookies, err := cookie.NewTransport(&cfg.Auth)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating cookie transport: %w", err)
	}

	httpClient, err := idp.NewHTTPClient(&cfg.Auth.Provider)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading http client: %w", err)
	}

	idpClient, err := idp.NewOIDCClient(&cfg.Auth.Provider, httpClient)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating identity provider client: %w", err)
	}

	revocations, closeFn, err := revocationsFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating revocation list: %w", err)
	}

	var auditLogger *otlpaudit.AuditLogger
	if cfg.Audit.Endpoint != "" {
		auditLogger, err = otlpaudit.NewLogger(&cfg.Audit)
		if err != nil {
			closeFn()
			return nil, nil, nil, fmt.Errorf("creating audit logger: %w", err)
		}
	} else {
		slogctx.Warn(ctx, "No audit endpoint configured; login events are not audited")
	}

	sessManager, err := session.NewManager(&cfg.Auth, idpClient, codec, revocations, auditLogger)
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("creating session manager: %w", err)
	}

	slogctx.Info(ctx, "Session manager initialised",
		"issuer", cfg.Auth.Provider.Issuer,
		"revocation", cfg.Auth.Revocation,
		"production", cfg.Auth.Production,
	)

	return sessManager, cookies, closeFn, nil
}

func codecFromConfig(cfg *config.Config) (*session.Codec, error) {
	secret, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("loading session secret from source ref: %w", err)
	}

	previous := make([][]byte, 0, len(cfg.Auth.PreviousSessionSecrets))
	for i, ref := range cfg.Auth.PreviousSessionSecrets {
		s, err := commoncfg.LoadValueFromSourceRef(ref)
		if err != nil {
			return nil, fmt.Errorf("loading previous session secret %d: %w", i, err)
		}
		if len(s) < session.MinSecretLength {
			return nil, fmt.Errorf("previous session secret %d must be at least %d bytes", i, session.MinSecretLength)
		}
		previous = append(previous, s)
	}

	issuer := cfg.Application.Name
	if issuer == "" {
		issuer = "login-gateway"
	}

	return session.NewCodec(secret, issuer, cfg.Auth.SessionDuration, session.WithPreviousSecrets(previous...))
}

func revocationsFromConfig(cfg *config.Config) (session.Revocations, func(), error) {
	switch cfg.Auth.Revocation {
	case config.RevocationNone, "":
		return nil, func() {}, nil
	case config.RevocationMemory:
		return sessionmemory.NewRevocations(), func() {}, nil
	case config.RevocationValkey:
		valkeyClient, err := valkeyClientFromConfig(cfg)
		if err != nil {
			return nil, nil, err
		}
		return sessionvalkey.NewRevocations(valkeyClient, cfg.ValKey.Prefix), valkeyClient.Close, nil
	default:
		return nil, nil, errors.New("unknown revocation type " + cfg.Auth.Revocation)
	}
}

func valkeyClientFromConfig(cfg *config.Config) (valkey.Client, error) {
	valkeyHost, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey host: %w", err)
	}

	valkeyUsername, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.User)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey username: %w", err)
	}

	valkeyPassword, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey password: %w", err)
	}

	valkeyOpts := valkey.ClientOption{
		InitAddress: []string{string(valkeyHost)},
		Username:    string(valkeyUsername),
		Password:    string(valkeyPassword),
	}

	if cfg.ValKey.MTLS != nil {
		tlsConfig, err := commoncfg.LoadMTLSConfig(cfg.ValKey.MTLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load valkey mTLS config: %w", err)
		}

		valkeyOpts.TLSConfig = tlsConfig
	}

	valkeyClient, err := valkey.NewClient(valkeyOpts)
	if err != nil {
		return nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return valkeyClient, nil
}
