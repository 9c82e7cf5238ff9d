package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceStore_CheckAndSet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "submitter", "nonce-xyz", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "new nonce should return true")

	// Replay
	ok, err = store.CheckAndSet(ctx, "submitter", "nonce-xyz", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "replayed nonce should return false")

	ok, err = store.CheckAndSet(ctx, "other-caller", "nonce-xyz", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "same nonce for a different caller should be valid")
}

func TestNonceStore_CheckAndSet_ExpiredNonce(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "submitter", "nonce-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// Fast-forward past TTL
	s.FastForward(2 * time.Second)

	ok, err = store.CheckAndSet(ctx, "submitter", "nonce-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired nonce should be accepted again")
}

func TestNonceStore_RecordsFirstSeenWithTTL(t *testing.T) {
	s := miniredis.RunT(t)
	store := NewNonceStore(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))

	ok, err := store.CheckAndSet(context.Background(), "builder", "n-1", 2*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, s.Exists("nonce:builder:n-1"))
	assert.Equal(t, 2*time.Minute, s.TTL("nonce:builder:n-1"))
	v, err := s.Get("nonce:builder:n-1")
	require.NoError(t, err)
	assert.NotEmpty(t, v)
}

func TestNonceStore_Errors(t *testing.T) {
	s := miniredis.RunT(t)
	store := NewNonceStore(goredis.NewClient(&goredis.Options{Addr: s.Addr(), MaxRetries: -1}))

	_, err := store.CheckAndSet(context.Background(), "builder", "", time.Minute)
	assert.Error(t, err, "empty nonce is rejected")

	s.Close()
	_, err = store.CheckAndSet(context.Background(), "builder", "n-2", time.Minute)
	assert.Error(t, err)
}
