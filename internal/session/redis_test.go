package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStoreFreshSenderIsIdle(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour)

	s, err := store.Get(context.Background(), "5511999990000")
	require.NoError(t, err)
	assert.Equal(t, ModeIdle, s.Mode)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sender", Session{
		Mode:             ModeAwaitingHandoff,
		AwaitingMapReply: true,
		Registered:       true,
	}))

	s, err := store.Get(ctx, "sender")
	require.NoError(t, err)
	assert.Equal(t, ModeAwaitingHandoff, s.Mode)
	assert.True(t, s.AwaitingMapReply)
	assert.True(t, s.Registered)
}

func TestRedisStoreSessionsExpire(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sender", Session{Mode: ModeAwaitingHandoff}))
	mr.FastForward(2 * time.Minute)

	s, err := store.Get(ctx, "sender")
	require.NoError(t, err)
	assert.Equal(t, ModeIdle, s.Mode)
}

func TestRedisStoreCorruptPayloadResets(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour)

	mr.Set(sessionKey("sender"), "not json")

	s, err := store.Get(context.Background(), "sender")
	assert.Error(t, err)
	assert.Equal(t, ModeIdle, s.Mode)
}
