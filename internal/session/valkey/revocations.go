// Package sessionvalkey keeps the session revocation list in Valkey so that
// every replica sees a logout.
package sessionvalkey

import (
	"context"
	"errors"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/openkcm/login-gateway/internal/session"
)

type ObjectType string

const objectTypeRevoked ObjectType = "revoked"

var (
	ErrRevoke     = errors.New("setting revocation into storage")
	ErrGetRevoked = errors.New("getting revocation from store")
)

type revocation struct {
	SessionID string    `json:"sessionId"`
	RevokedAt time.Time `json:"revokedAt"`
	Until     time.Time `json:"until"`
}

type Revocations struct {
	store *store
	now   func() time.Time
}

var _ = session.Revocations(&Revocations{})

func NewRevocations(valkeyClient valkey.Client, prefix string) *Revocations {
	return &Revocations{
		store: newStore(valkeyClient, prefix),
		now:   time.Now,
	}
}

// Revoke marks the session as logged out. The entry expires with the
// session. Revoking an already expired session is a no-op.
func (r *Revocations) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	now := r.now()
	ttl := until.Sub(now)
	if ttl <= 0 {
		return nil
	}

	rec := revocation{SessionID: sessionID, RevokedAt: now, Until: until}
	if err := r.store.Set(ctx, objectTypeRevoked, sessionID, rec, ttl); err != nil {
		return errors.Join(ErrRevoke, err)
	}

	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	ok, err := r.store.Exists(ctx, objectTypeRevoked, sessionID)
	if err != nil {
		return false, errors.Join(ErrGetRevoked, err)
	}

	return ok, nil
}
