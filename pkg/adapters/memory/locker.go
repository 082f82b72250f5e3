package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/megaverse/pkg/ports"
)

// Locker implements ports.DistributedLocker within a single process.
type Locker struct {
	mu     sync.Mutex
	leases map[string]lease
	seq    uint64
}

type lease struct {
	token   uint64
	expires time.Time
}

// NewLocker creates a new in-memory locker.
func NewLocker() *Locker {
	return &Locker{
		leases: make(map[string]lease),
	}
}

// Lock acquires the lock for key, polling until it is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if token, ok := l.tryAcquire(key, ttl); ok {
			return func(ctx context.Context) error {
				l.release(key, token)
				return nil
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Locker) tryAcquire(key string, ttl time.Duration) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if held, ok := l.leases[key]; ok && now.Before(held.expires) {
		return 0, false
	}
	l.seq++
	l.leases[key] = lease{token: l.seq, expires: now.Add(ttl)}
	return l.seq, true
}

// release only drops the lease it created; an expired and re-acquired lease is left alone.
func (l *Locker) release(key string, token uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if held, ok := l.leases[key]; ok && held.token == token {
		delete(l.leases, key)
	}
}
