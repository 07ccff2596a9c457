package mylock

import (
	"context"
	"sync"
	"time"
)

type InMemoryLocker struct {
	sync.Mutex
	now   func() time.Time
	locks map[string]time.Time
}

func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		now:   time.Now,
		locks: map[string]time.Time{},
	}
}

func (l *InMemoryLocker) Acquire(c context.Context, key string, ttl time.Duration) (bool, error) {
	l.Lock()
	defer l.Unlock()

	now := l.now()
	expiry, exists := l.locks[key]
	if exists && now.Before(expiry) {
		return false, nil
	}
	l.locks[key] = now.Add(ttl)

	return true, nil
}

func (l *InMemoryLocker) Release(c context.Context, key string) error {
	l.Lock()
	defer l.Unlock()

	delete(l.locks, key)

	return nil
}
