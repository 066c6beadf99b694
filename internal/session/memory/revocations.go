// Package sessionmemory keeps the session revocation list in process
// memory. It suits single replica deployments and tests.
package sessionmemory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/openkcm/login-gateway/internal/session"
)

const cleanupInterval = 10 * time.Minute

type Revocations struct {
	cache *cache.Cache
	now   func() time.Time
}

var _ = session.Revocations(&Revocations{})

func NewRevocations() *Revocations {
	return &Revocations{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
		now:   time.Now,
	}
}

// Revoke records the session until it expires on its own.
func (r *Revocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	r.cache.Set(sessionID, until, ttl)

	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	_, ok := r.cache.Get(sessionID)
	return ok, nil
}

// Len returns the number of sessions currently revoked.
func (r *Revocations) Len() int {
	return r.cache.ItemCount()
}
