package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errBudgetExhausted = errors.New("model call budget exhausted for this session")

// callLimiter enforces a minimum spacing between model calls and a hard cap
// on total calls for one adapter instance's lifetime. Once the cap is hit,
// acquire fails immediately and the engine serves fallback content for the
// rest of the session.
type callLimiter struct {
	mu        sync.Mutex
	spacing   time.Duration
	remaining int
	next      time.Time
}

func newCallLimiter(sessionCap int, spacing time.Duration) *callLimiter {
	return &callLimiter{
		spacing:   spacing,
		remaining: sessionCap,
	}
}

// acquire reserves one call slot, sleeping until the spacing window opens.
// Concurrent callers are serialized onto consecutive windows.
func (l *callLimiter) acquire(ctx context.Context) error {
	l.mu.Lock()
	if l.remaining <= 0 {
		l.mu.Unlock()
		return errBudgetExhausted
	}
	l.remaining--

	now := time.Now()
	wait := l.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	l.next = now.Add(wait + l.spacing)
	l.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// exhausted reports whether the session budget is used up.
func (l *callLimiter) exhausted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining <= 0
}

// drain burns the remaining budget, used when the backend itself signals
// quota exhaustion.
func (l *callLimiter) drain() {
	l.mu.Lock()
	l.remaining = 0
	l.mu.Unlock()
}
