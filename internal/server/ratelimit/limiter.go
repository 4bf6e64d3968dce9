// Package ratelimit keeps per-client token buckets. A bucket allows a burst
// of its whole per-minute budget and refills evenly over the minute.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleAfter is how long an untouched bucket is kept. A bucket idle for a
// minute is full again, so dropping it later changes nothing.
const idleAfter = 10 * time.Minute

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// Limiter is safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{buckets: make(map[string]*bucket), now: time.Now}
}

// Allow reports whether key may make one more request under a budget of
// perMinute requests per minute. A non-positive budget or an empty key always
// passes.
func (l *Limiter) Allow(key string, perMinute int) bool {
	if perMinute <= 0 || key == "" {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b := l.buckets[key]
	if b == nil {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.limiter.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleAfter {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.seen) >= idleAfter {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

// Policy is the per-minute budget of each method. Methods not listed get
// Default.
type Policy struct {
	Default int
	Methods map[string]int
}

func (p Policy) Budget(method string) int {
	if n, ok := p.Methods[method]; ok {
		return n
	}
	return p.Default
}
