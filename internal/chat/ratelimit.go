package chat

import (
	"sync"
	"time"
)

// RateLimit bounds how many lines a session may send. Burst lines are allowed
// at once and the bucket refills Burst tokens per RefillInterval. A zero Burst
// disables limiting.
type RateLimit struct {
	Burst          int
	RefillInterval time.Duration
}

// rateLimiter is a token bucket.
type rateLimiter struct {
	mu        sync.Mutex
	tokens    float64
	capacity  float64
	rate      float64
	lastCheck time.Time
	now       func() time.Time
}

func newRateLimiter(limit RateLimit) *rateLimiter {
	if limit.Burst <= 0 {
		return nil
	}
	interval := limit.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}

	capacity := float64(limit.Burst)
	return &rateLimiter{
		tokens:    capacity,
		capacity:  capacity,
		rate:      capacity / interval.Seconds(),
		lastCheck: time.Now(),
		now:       time.Now,
	}
}

// allow takes one token. A nil limiter allows everything.
func (rl *rateLimiter) allow() bool {
	if rl == nil {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastCheck).Seconds()
	rl.lastCheck = now

	if elapsed > 0 {
		rl.tokens += elapsed * rl.rate
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
	}

	if rl.tokens < 1 {
		return false
	}

	rl.tokens--
	return true
}
