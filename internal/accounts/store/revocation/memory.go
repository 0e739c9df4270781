package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemory is a map-backed revocation list for tests and single-instance
// deployments. Expired entries are dropped lazily on check and swept
// whenever the map grows past sweepThreshold.
type InMemory struct {
	mu        sync.RWMutex
	revoked   map[string]time.Time
	nowFn     func() time.Time
	sweepSize int
}

const sweepThreshold = 1024

func NewInMemory() *InMemory {
	return &InMemory{
		revoked:   make(map[string]time.Time),
		nowFn:     time.Now,
		sweepSize: sweepThreshold,
	}
}

func (l *InMemory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	l.revoked[jti] = now.Add(ttl)
	if len(l.revoked) > l.sweepSize {
		l.sweep(now)
	}
	return nil
}

func (l *InMemory) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	l.mu.RLock()
	expiry, ok := l.revoked[jti]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if l.nowFn().After(expiry) {
		l.mu.Lock()
		delete(l.revoked, jti)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// sweep removes expired entries. Caller holds the write lock.
func (l *InMemory) sweep(now time.Time) {
	for jti, expiry := range l.revoked {
		if now.After(expiry) {
			delete(l.revoked, jti)
		}
	}
}
