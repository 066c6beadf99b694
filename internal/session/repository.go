package session

import (
	"context"
	"time"
)

// Revocations is a denylist of session IDs that were logged out before
// they expired. Entries only need to live until the session expiry.
type Revocations interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
