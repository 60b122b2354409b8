package memory

import (
	"context"
	"sync"
	"time"
)

const loginLimiterSweepInterval = time.Minute

type attempts struct {
	count   int
	resetAt time.Time
}

// LoginLimiter counts failed attempts per key within a fixed window. Expired
// windows are swept in the background until Close is called.
type LoginLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	keys        map[string]*attempts

	stopCh chan struct{}
	once   sync.Once
}

func NewLoginLimiter(maxAttempts int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		keys:        make(map[string]*attempts),
		stopCh:      make(chan struct{}),
	}
	go l.sweepLoop(loginLimiterSweepInterval)
	return l
}

func (l *LoginLimiter) Allowed(_ context.Context, key string) (bool, error) {
	if l.maxAttempts <= 0 {
		return true, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.current(key)
	return a == nil || a.count < l.maxAttempts, nil
}

func (l *LoginLimiter) Fail(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.current(key)
	if a == nil {
		a = &attempts{resetAt: l.now().Add(l.window)}
		l.keys[key] = a
	}
	a.count++
	return nil
}

func (l *LoginLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.keys, key)
	return nil
}

// Close stops the background sweep.
func (l *LoginLimiter) Close() {
	l.once.Do(func() { close(l.stopCh) })
}

// Len returns the number of tracked keys.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// current returns the live window for key, dropping an expired one.
func (l *LoginLimiter) current(key string) *attempts {
	a, ok := l.keys[key]
	if !ok {
		return nil
	}
	if !l.now().Before(a.resetAt) {
		delete(l.keys, key)
		return nil
	}
	return a
}

func (l *LoginLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stopCh:
			return
		}
	}
}

// sweep drops every expired window, including keys never looked up again.
func (l *LoginLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, a := range l.keys {
		if !now.Before(a.resetAt) {
			delete(l.keys, key)
		}
	}
}
