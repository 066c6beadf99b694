package config

import (
	"net/http"
	"time"
)

// CookieTemplate holds the configurable part of a cookie. The security
// attributes are not configurable: every cookie is HttpOnly and SameSite=Lax,
// and Secure follows the production flag.
type CookieTemplate struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Domain string `yaml:"domain"`
}

func (ct *CookieTemplate) ToCookie(value string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     ct.Name,
		Value:    value,
		MaxAge:   int(ttl.Seconds()),
		Path:     ct.Path,
		Domain:   ct.Domain,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ToExpiredCookie returns a cookie that makes the client drop the cookie
// described by the template.
func (ct *CookieTemplate) ToExpiredCookie(secure bool) *http.Cookie {
	c := ct.ToCookie("", 0, secure)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)

	return c
}
