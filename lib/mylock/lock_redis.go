package mylock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(c context.Context, addr string) (*RedisLocker, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	err := client.Ping(c).Err()
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("error connecting to redis at %s: %w", addr, err)
	}

	return NewRedisLockerWithClient(client), func() {
		client.Close()
	}, nil
}

func NewRedisLockerWithClient(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
	}
}

func (l *RedisLocker) Acquire(c context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(c, lockKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return acquired, nil
}

func (l *RedisLocker) Release(c context.Context, key string) error {
	err := l.client.Del(c, lockKey(key)).Err()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func lockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}
