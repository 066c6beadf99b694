package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the loaded configuration against the validate tags and
// the cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	v := validator.New()

	// BaseConfig is validated by commoncfg itself.
	for _, section := range []any{&cfg.HTTP, &cfg.Auth} {
		if err := validateStruct(v, section); err != nil {
			return err
		}
	}

	if cfg.Auth.SessionSecret.Source == "" {
		return errors.New("auth.sessionSecret is required")
	}
	if cfg.Auth.Revocation == RevocationValkey && cfg.ValKey.Host.Source == "" {
		return errors.New("valkey.host is required for valkey revocation")
	}

	switch cfg.Auth.Provider.ClientAuth.Type {
	case ClientAuthMTLS:
		if cfg.Auth.Provider.ClientAuth.MTLS == nil {
			return errors.New("auth.provider.clientAuth.mtls is required for mtls client auth")
		}
	case ClientAuthClientSecret:
		if cfg.Auth.Provider.ClientAuth.ClientSecret.Source == "" {
			return errors.New("auth.provider.clientAuth.clientSecret is required for client_secret client auth")
		}
	}

	return nil
}

func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed on %q", fe.Namespace(), fe.Tag()))
	}

	return errors.Join(errs...)
}
