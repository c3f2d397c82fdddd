// Package dedup recognizes repeated deliveries of the same gateway callback so
// the host applies each transaction outcome once.
package dedup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard reports whether a key is seen for the first time within its TTL.
// Forget releases a key whose outcome could not be handed off, so a
// redelivery is processed again.
type Guard interface {
	FirstDelivery(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// Key builds the guard key for a provider transaction.
func Key(provider, orderNumber, transactionID string) string {
	return fmt.Sprintf("callback_seen:%s:%s:%s", provider, orderNumber, transactionID)
}

// RedisGuard stores seen keys in Redis with SETNX.
type RedisGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisGuard creates a RedisGuard.
func NewRedisGuard(client redis.Cmdable, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) FirstDelivery(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup: setnx %s: %w", key, err)
	}
	return ok, nil
}

func (g *RedisGuard) Forget(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("dedup: del %s: %w", key, err)
	}
	return nil
}

// MemoryGuard is an in-process Guard for single-instance deployments and tests.
type MemoryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryGuard creates a MemoryGuard.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryGuard) FirstDelivery(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, exp := range g.seen {
		if now.After(exp) {
			delete(g.seen, k)
		}
	}
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = now.Add(g.ttl)
	return true, nil
}

func (g *MemoryGuard) Forget(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, key)
	return nil
}
