package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CartLocker provides per-user mutual exclusion around cart mutations and checkout.
type CartLocker interface {
	Lock(ctx context.Context, userID uuid.UUID) (unlock func(), err error)
}

// LocalCartLocker is an in-process CartLocker for tests and single-instance deployments.
type LocalCartLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalCartLocker() *LocalCartLocker {
	return &LocalCartLocker{locks: make(map[uuid.UUID]*localLock)}
}

func (l *LocalCartLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &localLock{ch: make(chan struct{}, 1)}
		l.locks[userID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, lock)
		return nil, ctx.Err()
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-lock.ch
			l.release(userID, lock)
		})
	}, nil
}

func (l *LocalCartLocker) release(userID uuid.UUID, lock *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, userID)
	}
}
