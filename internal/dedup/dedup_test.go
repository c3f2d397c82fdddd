package dedup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	redis.Cmdable
	keys map[string]time.Duration
	err  error
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "callback_seen:worldpay-bg350:ORDER-1:T-1", Key("worldpay-bg350", "ORDER-1", "T-1"))
}

func TestRedisGuard(t *testing.T) {
	fake := &fakeRedis{keys: map[string]time.Duration{}}
	g := NewRedisGuard(fake, time.Hour)
	ctx := context.Background()

	first, err := g.FirstDelivery(ctx, "k")
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, time.Hour, fake.keys["k"])

	again, err := g.FirstDelivery(ctx, "k")
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, g.Forget(ctx, "k"))
	redelivered, err := g.FirstDelivery(ctx, "k")
	require.NoError(t, err)
	assert.True(t, redelivered)
}

func TestRedisGuard_Error(t *testing.T) {
	boom := errors.New("connection refused")
	g := NewRedisGuard(&fakeRedis{err: boom}, time.Hour)

	_, err := g.FirstDelivery(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
}

func TestMemoryGuard_Expiry(t *testing.T) {
	g := NewMemoryGuard(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	first, _ := g.FirstDelivery(ctx, "k")
	assert.True(t, first)
	dup, _ := g.FirstDelivery(ctx, "k")
	assert.False(t, dup)

	now = now.Add(2 * time.Minute)
	afterTTL, _ := g.FirstDelivery(ctx, "k")
	assert.True(t, afterTTL)

	require.NoError(t, g.Forget(ctx, "k"))
	forgotten, _ := g.FirstDelivery(ctx, "k")
	assert.True(t, forgotten)
}
