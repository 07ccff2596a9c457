package mylock

import (
	"context"
	"time"
)

// Locker hands out short-lived exclusive locks by key.
// A lock that is never released expires after its ttl.
type Locker interface {
	Acquire(c context.Context, key string, ttl time.Duration) (bool, error)
	Release(c context.Context, key string) error
}

// New uses redis when an address is configured and an in-process lock otherwise.
func New(c context.Context, redisAddr string) (Locker, func(), error) {
	if redisAddr != "" {
		return NewRedisLocker(c, redisAddr)
	}
	return NewInMemoryLocker(), func() {}, nil
}
