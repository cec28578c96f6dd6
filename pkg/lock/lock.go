// Package lock serializes work per key. The like engine takes one lock per
// (post, user) pair so that the existence check and the write it guards
// cannot interleave with another toggle of the same pair.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social-monkeys/pkg/config"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotAcquired is returned when the context ends before the lock is held.
	ErrNotAcquired = errors.New("lock not acquired")
	// ErrNotHeld is returned by release when the hold expired before it ran.
	ErrNotHeld = errors.New("lock no longer held")
)

// Locker hands out exclusive holds on string keys. The returned release
// function must be called exactly once. A release error means the key may
// stay blocked until the backend expires it.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func() error, err error)
}

// New picks the backend named by cfg.LockBackend. The redis backend needs a
// client; "memory" only serializes within this process.
func New(cfg *config.Config, redisClient *redis.Client) (Locker, error) {
	switch cfg.LockBackend {
	case "memory":
		return NewKeyedMutex(), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("redis lock backend requires a redis client")
		}
		return NewRedisLocker(redisClient, cfg.LockTTL, 25*time.Millisecond), nil
	default:
		return nil, fmt.Errorf("unknown lock backend: %q", cfg.LockBackend)
	}
}
