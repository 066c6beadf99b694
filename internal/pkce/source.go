// Package pkce generates RFC 7636 verifier/challenge pairs.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const MethodS256 = "S256"

// verifierBytes is the amount of entropy in a verifier. Encoded it yields
// 43 characters, the RFC 7636 minimum.
const verifierBytes = 32

type PKCE struct {
	Verifier  string
	Challenge string
	Method    string
}

// Source produces PKCE pairs from crypto/rand.
type Source struct{}

func (p Source) randBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// Without entropy no login can be started safely.
		panic("pkce: reading random bytes: " + err.Error())
	}

	return b
}

func (p Source) PKCE() PKCE {
	verifier := base64.RawURLEncoding.EncodeToString(p.randBytes(verifierBytes))

	return PKCE{
		Verifier:  verifier,
		Challenge: S256Challenge(verifier),
		Method:    MethodS256,
	}
}

// S256Challenge derives the code challenge of a verifier.
func S256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
