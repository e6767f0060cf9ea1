package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter delays callers until a request slot is free. It never re-sends
// anything; it only decides when the first and only attempt may start.
type RateLimiter interface {
	Wait(ctx context.Context) error
	Allow() bool
	Remaining() int
}

// TokenBucket refills refillRate tokens per second up to capacity.
type TokenBucket struct {
	capacity   int
	tokens     int
	refillRate int
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	add := int(now.Sub(tb.lastRefill).Seconds()) * tb.refillRate
	if add > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+add)
		tb.lastRefill = now
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}
		wait := time.Second
		if tb.refillRate > 0 {
			wait = time.Second / time.Duration(tb.refillRate)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return tb.tokens
}

// SlidingWindow admits at most limit requests in any window.
type SlidingWindow struct {
	limit    int
	window   time.Duration
	requests []time.Time
	mu       sync.Mutex
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{limit: limit, window: window}
}

// prune drops timestamps that fell out of the window. Caller holds mu.
func (sw *SlidingWindow) prune(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for i < len(sw.requests) && !sw.requests[i].After(cutoff) {
		i++
	}
	sw.requests = sw.requests[i:]
}

func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.prune(now)
	if len(sw.requests) >= sw.limit {
		return false
	}
	sw.requests = append(sw.requests, now)
	return true
}

func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for {
		if sw.Allow() {
			return nil
		}
		sw.mu.Lock()
		wait := 100 * time.Millisecond
		if len(sw.requests) > 0 {
			if d := sw.window - time.Since(sw.requests[0]); d > 0 {
				wait = d
			}
		}
		sw.mu.Unlock()
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (sw *SlidingWindow) Remaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.prune(time.Now())
	return max(0, sw.limit-len(sw.requests))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Manager routes endpoint keys to limiters. Unknown keys share the general
// limiter.
type Manager struct {
	limiters map[string]RateLimiter
	general  RateLimiter
	mu       sync.RWMutex
}

const KeyGeneral = "fapi:general"

// NewManager returns a manager preloaded with the USDⓈ-M futures limits:
// 300 orders per 10s and 2400 requests per minute.
func NewManager() *Manager {
	m := &Manager{
		limiters: make(map[string]RateLimiter),
		general:  NewSlidingWindow(2400, time.Minute),
	}
	m.limiters["fapi:order:post"] = NewTokenBucket(300, 30)
	m.limiters["fapi:account:get"] = NewSlidingWindow(1200, time.Minute)
	return m
}

// Set installs or replaces the limiter for key.
func (m *Manager) Set(key string, l RateLimiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == KeyGeneral {
		m.general = l
		return
	}
	m.limiters[key] = l
}

func (m *Manager) Limiter(key string) RateLimiter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.limiters[key]; ok {
		return l
	}
	return m.general
}

func (m *Manager) Wait(ctx context.Context, key string) error {
	return m.Limiter(key).Wait(ctx)
}

func (m *Manager) Allow(key string) bool {
	return m.Limiter(key).Allow()
}

func (m *Manager) Remaining(key string) int {
	return m.Limiter(key).Remaining()
}
