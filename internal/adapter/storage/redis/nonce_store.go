package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NonceStore implements ports.NonceStore. Each (caller, nonce) pair is accepted once
// per TTL; the stored value is the unix time the nonce was first seen.
type NonceStore struct {
	client *goredis.Client
	prefix string
}

// NewNonceStore creates a new Redis-backed nonce store.
func NewNonceStore(client *goredis.Client) *NonceStore {
	return &NonceStore{
		client: client,
		prefix: "nonce:",
	}
}

func (s *NonceStore) key(caller, nonce string) string {
	return s.prefix + caller + ":" + nonce
}

// CheckAndSet records nonce for caller if it is new. It returns false for a replay.
func (s *NonceStore) CheckAndSet(ctx context.Context, caller string, nonce string, ttl time.Duration) (bool, error) {
	if nonce == "" {
		return false, errors.New("redis nonce check: empty nonce")
	}
	isNew, err := s.client.SetNX(ctx, s.key(caller, nonce), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis nonce check: %w", err)
	}
	return isNew, nil
}
