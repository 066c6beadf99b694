package sessionvalkey

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

type store struct {
	valkey valkey.Client
	prefix string
}

func newStore(valkeyClient valkey.Client, prefix string) *store {
	prefix = strings.TrimSuffix(prefix, ":")
	return &store{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

// Set stores val and lets the key expire after ttl.
func (s *store) Set(ctx context.Context, objectType ObjectType, objectID string, val any, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("invalid ttl %s", ttl)
	}

	bytes, err := s.encode(val)
	if err != nil {
		return fmt.Errorf("encoding data: %w", err)
	}

	cmd := s.valkey.B().Set().
		Key(s.key(objectType, objectID)).
		Value(valkey.BinaryString(bytes)).
		PxMilliseconds(ttl.Milliseconds()).
		Build()
	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("executing set command: %w", err)
	}

	return nil
}

func (s *store) Exists(ctx context.Context, objectType ObjectType, objectID string) (bool, error) {
	n, err := s.valkey.Do(ctx, s.valkey.B().Exists().Key(s.key(objectType, objectID)).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("executing exists command: %w", err)
	}

	return n > 0, nil
}

func (s *store) key(objectType ObjectType, objectID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, objectType, objectID)
}

func (s *store) encode(v any) ([]byte, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling json: %w", err)
	}

	return bytes, nil
}
