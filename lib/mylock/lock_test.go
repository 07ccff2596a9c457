package mylock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
	})
	return NewRedisLockerWithClient(client), mr
}

func TestRedisLocker(t *testing.T) {
	c := context.Background()
	locker, mr := setupRedisLocker(t)

	t.Run("First acquire wins", func(t *testing.T) {
		acquired, err := locker.Acquire(c, "session-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
		assert.True(t, mr.Exists("lock:session-1"))
	})

	t.Run("Second acquire loses", func(t *testing.T) {
		acquired, err := locker.Acquire(c, "session-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("Other key is independent", func(t *testing.T) {
		acquired, err := locker.Acquire(c, "session-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("Release frees the lock", func(t *testing.T) {
		err := locker.Release(c, "session-1")
		require.NoError(t, err)

		acquired, err := locker.Acquire(c, "session-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("Lock expires", func(t *testing.T) {
		acquired, _ := locker.Acquire(c, "session-3", time.Second)
		assert.True(t, acquired)

		mr.FastForward(2 * time.Second)

		acquired, err := locker.Acquire(c, "session-3", time.Second)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("Redis down", func(t *testing.T) {
		mr.Close()

		_, err := locker.Acquire(c, "session-4", time.Minute)
		assert.Error(t, err)
	})
}

func TestInMemoryLocker(t *testing.T) {
	c := context.Background()
	now := time.Date(2024, 3, 21, 10, 0, 0, 0, time.UTC)
	locker := NewInMemoryLocker()
	locker.now = func() time.Time { return now }

	acquired, _ := locker.Acquire(c, "session-1", time.Minute)
	assert.True(t, acquired)

	acquired, _ = locker.Acquire(c, "session-1", time.Minute)
	assert.False(t, acquired)

	now = now.Add(2 * time.Minute)
	acquired, _ = locker.Acquire(c, "session-1", time.Minute)
	assert.True(t, acquired)

	_ = locker.Release(c, "session-1")
	acquired, _ = locker.Acquire(c, "session-1", time.Minute)
	assert.True(t, acquired)
}
