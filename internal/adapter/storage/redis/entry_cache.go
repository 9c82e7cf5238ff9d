package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// EntryCache implements ports.CreditEntryCache using Redis.
type EntryCache struct {
	client *goredis.Client
	prefix string
}

// NewEntryCache creates a new Redis-backed ledger entry cache.
func NewEntryCache(client *goredis.Client) *EntryCache {
	return &EntryCache{
		client: client,
		prefix: "credit_entry:",
	}
}

// Get retrieves a cached ledger entry by reservation id.
// Returns nil, nil if the key does not exist.
func (c *EntryCache) Get(ctx context.Context, id string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis entry get: %w", err)
	}
	return val, nil
}

// Set stores a committed ledger entry with TTL.
func (c *EntryCache) Set(ctx context.Context, id string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+id, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis entry set: %w", err)
	}
	return nil
}
