package session

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum length of a session secret in bytes.
const MinSecretLength = 32

// ErrInvalidSession is returned for every token that cannot be trusted:
// malformed, tampered, expired, or encrypted with an unknown key.
var ErrInvalidSession = errors.New("invalid session token")

// Codec turns an account identifier into an opaque session token and back.
// Tokens are JWTs encrypted with AES-256-GCM (JWE "dir"), so they are
// confidential and any modification is detected on decode.
type Codec struct {
	issuer    string
	duration  time.Duration
	encrypter jose.Encrypter
	keys      [][]byte
	now       func() time.Time
}

type CodecOption func(*Codec)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// WithPreviousSecrets lets tokens encrypted with older secrets still decode.
func WithPreviousSecrets(secrets ...[]byte) CodecOption {
	return func(c *Codec) {
		for _, s := range secrets {
			c.keys = append(c.keys, deriveKey(s))
		}
	}
}

func NewCodec(secret []byte, issuer string, duration time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	}
	if duration <= 0 {
		return nil, errors.New("session duration must be positive")
	}

	key := deriveKey(secret)
	encrypter, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: key},
		(&jose.EncrypterOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating encrypter: %w", err)
	}

	c := &Codec{
		issuer:    issuer,
		duration:  duration,
		encrypter: encrypter,
		keys:      [][]byte{key},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Encode issues a new session token for the account.
func (c *Codec) Encode(accountID string) (string, error) {
	token, _, err := c.Issue(accountID)
	return token, err
}

// Issue is Encode that also returns the session the token carries.
func (c *Codec) Issue(accountID string) (string, Session, error) {
	if accountID == "" {
		return "", Session{}, errors.New("account identifier is empty")
	}

	now := c.now().Truncate(time.Second)
	s := Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		IssuedAt:  now,
		Expiry:    now.Add(c.duration),
	}

	token, err := jwt.Encrypted(c.encrypter).Claims(jwt.Claims{
		Issuer:    c.issuer,
		Subject:   s.AccountID,
		ID:        s.ID,
		IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
		NotBefore: jwt.NewNumericDate(s.IssuedAt),
		Expiry:    jwt.NewNumericDate(s.Expiry),
	}).Serialize()
	if err != nil {
		return "", Session{}, fmt.Errorf("serializing session token: %w", err)
	}

	return token, s, nil
}

// Decode verifies the token and returns the session it carries. Every
// failure is reported as ErrInvalidSession.
func (c *Codec) Decode(token string) (Session, error) {
	if !isCanonical(token) {
		return Session{}, fmt.Errorf("%w: malformed token", ErrInvalidSession)
	}

	parsed, err := jwt.ParseEncrypted(token, []jose.KeyAlgorithm{jose.DIRECT}, []jose.ContentEncryption{jose.A256GCM})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	var claims jwt.Claims
	decrypted := false
	for _, key := range c.keys {
		if err := parsed.Claims(key, &claims); err == nil {
			decrypted = true
			break
		}
	}
	if !decrypted {
		return Session{}, fmt.Errorf("%w: decryption failed", ErrInvalidSession)
	}

	err = claims.ValidateWithLeeway(jwt.Expected{
		Issuer: c.issuer,
		Time:   c.now(),
	}, 0)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if claims.Subject == "" || claims.ID == "" || claims.Expiry == nil || claims.IssuedAt == nil {
		return Session{}, fmt.Errorf("%w: incomplete claims", ErrInvalidSession)
	}

	return Session{
		ID:        claims.ID,
		AccountID: claims.Subject,
		IssuedAt:  claims.IssuedAt.Time(),
		Expiry:    claims.Expiry.Time(),
	}, nil
}

// deriveKey maps a secret of any length to an AES-256 key.
func deriveKey(secret []byte) []byte {
	sum := sha256.Sum256(secret)
	return sum[:]
}

// isCanonical rejects compact JWE serializations whose segments are not
// canonical base64url. Lenient decoding would otherwise accept a token
// whose last character differs only in unused padding bits.
func isCanonical(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 5 {
		return false
	}

	strict := base64.RawURLEncoding.Strict()
	for _, p := range parts {
		if _, err := strict.DecodeString(p); err != nil {
			return false
		}
	}

	return true
}
