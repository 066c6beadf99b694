// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

const (
	RevocationNone   = "none"
	RevocationMemory = "memory"
	RevocationValkey = "valkey"

	ClientAuthNone         = "none"
	ClientAuthClientSecret = "client_secret"
	ClientAuthMTLS         = "mtls"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP   HTTPServer `yaml:"http"`
	ValKey ValKey     `yaml:"valkey"`
	Auth   Auth       `yaml:"auth"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix" default:"login-gateway"`
	// MTLS enables TLS client authentication towards Valkey.
	MTLS *commoncfg.MTLS `yaml:"mtls"`
}

// Auth configures the login flow and the session it produces.
type Auth struct {
	// BaseURI is the public root of the application. The callback URL and
	// the post-login redirect are derived from it.
	BaseURI    string `yaml:"baseURI" validate:"required,url"`
	Production bool   `yaml:"production"`

	SessionDuration        time.Duration         `yaml:"sessionDuration" default:"12h" validate:"gt=0"`
	PKCETTL                time.Duration         `yaml:"pkceTTL" default:"10m" validate:"gt=0"`
	SessionSecret          commoncfg.SourceRef   `yaml:"sessionSecret"`
	PreviousSessionSecrets []commoncfg.SourceRef `yaml:"previousSessionSecrets"`
	Revocation             string                `yaml:"revocation" default:"none" validate:"oneof=none memory valkey"`

	Cookies  Cookies  `yaml:"cookies"`
	Provider Provider `yaml:"provider"`
}

type Cookies struct {
	PKCE    CookieTemplate `yaml:"pkce"`
	Session CookieTemplate `yaml:"session"`
}

// Provider configures the OpenID Connect identity provider.
type Provider struct {
	Issuer string `yaml:"issuer" validate:"required,url"`
	// AllowHTTPScheme permits a plain http issuer, for local development.
	AllowHTTPScheme bool `yaml:"allowHttpScheme"`
	// Scopes are appended to the default scope set, e.g. API resource scopes.
	Scopes []string `yaml:"scopes"`
	// AccountClaims are the ID token claims joined with "." to form the
	// account identifier, e.g. [oid, tid].
	AccountClaims       []string          `yaml:"accountClaims"`
	AuthorizeParameters map[string]string `yaml:"authorizeParameters"`
	Timeout             time.Duration     `yaml:"timeout" default:"10s" validate:"gt=0"`
	// JWKSCacheTTL is how long the signing keys are kept. Unknown key IDs
	// refetch them earlier.
	JWKSCacheTTL time.Duration `yaml:"jwksCacheTTL" default:"1h"`
	ClientAuth   ClientAuth    `yaml:"clientAuth"`
}

type ClientAuth struct {
	Type         string              `yaml:"type" default:"none" validate:"oneof=none client_secret mtls"`
	ClientID     string              `yaml:"clientID" validate:"required"`
	ClientSecret commoncfg.SourceRef `yaml:"clientSecret"`
	MTLS         *commoncfg.MTLS     `yaml:"mtls"`
}
