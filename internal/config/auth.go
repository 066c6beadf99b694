package config

import (
	"fmt"
	"net/url"
	"strings"
)

const CallbackPath = "/auth/callback"

// AppURL returns the application root users land on after logging in.
func (a *Auth) AppURL() (*url.URL, error) {
	u, err := url.Parse(a.BaseURI)
	if err != nil {
		return nil, fmt.Errorf("parsing base URI: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URI %q is not absolute", a.BaseURI)
	}

	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""

	return u, nil
}

// CallbackURL returns the redirect URI registered with the identity provider.
func (a *Auth) CallbackURL() (*url.URL, error) {
	u, err := a.AppURL()
	if err != nil {
		return nil, err
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + CallbackPath

	return u, nil
}
