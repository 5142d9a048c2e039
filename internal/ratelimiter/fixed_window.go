package ratelimiter

import (
	"sync"
	"time"
)

type FixedWindowRateLimiter struct {
	sync.RWMutex
	clients map[string]*window
	limit   int
	window  time.Duration
}

type window struct {
	start time.Time
	count int
}

func NewFixedWindowLimiter(limit int, timeFrame time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  timeFrame,
	}
}

// Allow counts one request for key and reports whether it fits in the
// current window; when it does not, the second value is the time left
// until the window closes.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := time.Now()
	w, exists := rl.clients[key]
	if !exists || now.Sub(w.start) >= rl.window {
		w = &window{start: now}
		rl.clients[key] = w
		time.AfterFunc(rl.window, func() { rl.reset(key, w) })
	}

	if w.count >= rl.limit {
		return false, rl.window - now.Sub(w.start)
	}
	w.count++

	return true, 0
}

func (rl *FixedWindowRateLimiter) reset(key string, w *window) {
	rl.Lock()
	defer rl.Unlock()

	if rl.clients[key] == w {
		delete(rl.clients, key)
	}
}
