package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLoginRateLimit(t *testing.T) {
	cfg := config.RateConfig{MaxAttempts: 3, WindowSize: time.Minute}
	now := time.Unix(1_700_000_100, 42)
	key := "login_attempts:user@example.com"

	setup := func(t *testing.T) (*redisRateLimiter, redismock.ClientMock) {
		t.Helper()
		client, mock := redismock.NewClientMock()
		limiter := &redisRateLimiter{client: client, cfg: cfg, now: func() time.Time { return now }}

		return limiter, mock
	}

	expectPipeline := func(mock redismock.ClientMock, count int64) {
		mock.ExpectZRemRangeByScore(key, "0", "1700000040").SetVal(0)
		mock.ExpectZAdd(key, redis.Z{Score: float64(now.Unix()), Member: now.UnixNano()}).SetVal(1)
		mock.ExpectZCard(key).SetVal(count)
		mock.ExpectExpire(key, time.Minute).SetVal(true)
	}

	t.Run("Success - Within limit", func(t *testing.T) {
		// Arrange
		limiter, mock := setup(t)
		expectPipeline(mock, 2)

		// Act
		allowed, remaining, retryAfter, err := limiter.CheckLoginRateLimit(t.Context(), "User@Example.com")

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, remaining)
		assert.Equal(t, 0, retryAfter)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Last allowed attempt", func(t *testing.T) {
		limiter, mock := setup(t)
		expectPipeline(mock, 3)

		allowed, remaining, _, err := limiter.CheckLoginRateLimit(t.Context(), "user@example.com")

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 0, remaining)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Limit exceeded", func(t *testing.T) {
		// Arrange
		limiter, mock := setup(t)
		expectPipeline(mock, 4)
		mock.ExpectZRangeArgsWithScores(redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).
			SetVal([]redis.Z{{Score: 1_700_000_070, Member: "x"}})

		// Act
		allowed, remaining, retryAfter, err := limiter.CheckLoginRateLimit(t.Context(), "user@example.com")

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 0, remaining)
		assert.Equal(t, 30, retryAfter)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis unavailable", func(t *testing.T) {
		// Arrange
		limiter, mock := setup(t)
		mock.ExpectZRemRangeByScore(key, "0", "1700000040").SetErr(errors.New("connection refused"))

		// Act
		allowed, _, _, err := limiter.CheckLoginRateLimit(t.Context(), "user@example.com")

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
	})
}

func TestRedisCartLocker(t *testing.T) {
	cfg := config.CartLock{TTL: 5 * time.Second, Retries: 2, RetryDelay: time.Millisecond}
	userID := uuid.New()
	key := "cart_lock:" + userID.String()

	setup := func(t *testing.T) (*RedisCartLocker, redismock.ClientMock) {
		t.Helper()
		client, mock := redismock.NewClientMock()
		locker := NewCartLocker(client, cfg)
		locker.newToken = func() string { return "token-1" }

		return locker, mock
	}

	t.Run("Success - Acquire and release", func(t *testing.T) {
		// Arrange
		locker, mock := setup(t)
		mock.ExpectSetNX(key, "token-1", 5*time.Second).SetVal(true)
		mock.ExpectEval(releaseLockScript, []string{key}, "token-1").SetVal(int64(1))

		// Act
		unlock, err := locker.Lock(t.Context(), userID)
		require.NoError(t, err)
		unlock()

		// Assert
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Acquired after retry", func(t *testing.T) {
		// Arrange
		locker, mock := setup(t)
		mock.ExpectSetNX(key, "token-1", 5*time.Second).SetVal(false)
		mock.ExpectSetNX(key, "token-1", 5*time.Second).SetVal(true)

		// Act
		unlock, err := locker.Lock(t.Context(), userID)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, unlock)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Busy after all retries", func(t *testing.T) {
		// Arrange
		locker, mock := setup(t)
		for range cfg.Retries + 1 {
			mock.ExpectSetNX(key, "token-1", 5*time.Second).SetVal(false)
		}

		// Act
		unlock, err := locker.Lock(t.Context(), userID)

		// Assert
		require.ErrorIs(t, err, ErrLockNotAcquired)
		assert.Nil(t, unlock)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis error", func(t *testing.T) {
		// Arrange
		locker, mock := setup(t)
		mock.ExpectSetNX(key, "token-1", 5*time.Second).SetErr(errors.New("connection refused"))

		// Act
		_, err := locker.Lock(t.Context(), userID)

		// Assert
		require.ErrorContains(t, err, "failed to acquire cart lock")
		assert.NotErrorIs(t, err, ErrLockNotAcquired)
	})
}
