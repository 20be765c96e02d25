// Package ratelimit provides a per-client token bucket limiter for inbound
// requests. Clients that stay quiet are forgotten so the table does not grow
// without bound.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultIdleTTL is how long a client may stay silent before its bucket
	// is dropped.
	DefaultIdleTTL = 10 * time.Minute

	sweepInterval = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter keeps one token bucket per key, usually a client IP.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a limiter allowing rps requests per second per key with the
// given burst, and starts the background sweep. Call Stop when done.
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := newLimiter(rps, burst)
	go krl.sweepLoop()
	return krl
}

// PerMinute creates a limiter allowing n requests per minute per key. The
// burst equals n so a client may spend its whole minute at once.
func PerMinute(n int) *KeyedRateLimiter {
	return New(float64(n)/60, n)
}

func newLimiter(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Allow reports whether a request for key may proceed now.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	now := krl.now()
	c, ok := krl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.clients[key] = c
	}
	c.lastSeen = now
	krl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.clients)
}

// Stop ends the background sweep. It is safe to call more than once.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			krl.sweep()
		case <-krl.done:
			return
		}
	}
}

// sweep drops keys idle for longer than idleTTL and returns how many went.
func (krl *KeyedRateLimiter) sweep() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	cutoff := krl.now().Add(-krl.idleTTL)
	removed := 0
	for key, c := range krl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(krl.clients, key)
			removed++
		}
	}
	return removed
}
