package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// deletes the key only while it still holds our token
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

const releaseTimeout = 2 * time.Second

// RedisCartLocker serialises cart mutations and checkout per user across instances.
type RedisCartLocker struct {
	client     redis.Cmdable
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
	newToken   func() string
}

func NewCartLocker(client redis.Cmdable, cfg config.CartLock) *RedisCartLocker {
	return &RedisCartLocker{
		client:     client,
		ttl:        cfg.TTL,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		newToken:   uuid.NewString,
	}
}

func cartLockKey(userID uuid.UUID) string {
	return "cart_lock:" + userID.String()
}

// Lock acquires the user's cart lock, retrying briefly. The returned func releases it.
func (l *RedisCartLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := cartLockKey(userID)
	token := l.newToken()

	for attempt := 0; ; attempt++ {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire cart lock: %w", err)
		}

		if acquired {
			return func() { l.release(ctx, key, token) }, nil
		}

		if attempt >= l.retries {
			return nil, ErrLockNotAcquired
		}

		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", ErrLockNotAcquired, ctx.Err())
		case <-timer.C:
		}
	}
}

func (l *RedisCartLocker) release(ctx context.Context, key, token string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := l.client.Eval(releaseCtx, releaseLockScript, []string{key}, token).Err(); err != nil {
		slog.Warn("Failed to release cart lock", slog.String("key", key), slog.Any("error", err))
	}
}
