package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow reports whether a request may proceed now, consuming a slot if so
	Allow() bool
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
	// Reset resets the limiter state
	Reset()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interval inserts a fixed pause between successive calls. The first Wait
// returns immediately; every later Wait sleeps the full interval.
type Interval struct {
	interval time.Duration
	started  bool
	mu       sync.Mutex
}

// NewInterval creates a pacer with the given pause. A zero interval never
// blocks.
func NewInterval(interval time.Duration) *Interval {
	return &Interval{interval: interval}
}

// Allow reports whether a call may proceed without pausing
func (p *Interval) Allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.interval <= 0 {
		p.started = true
		return true
	}
	return false
}

// Wait pauses for the interval unless this is the first call
func (p *Interval) Wait(ctx context.Context) error {
	if p.Allow() {
		return ctx.Err()
	}
	return sleep(ctx, p.interval)
}

// Reset makes the next Wait return immediately again
func (p *Interval) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
}

// Interval returns the configured pause
func (p *Interval) Interval() time.Duration {
	return p.interval
}

// TokenBucket spreads capacity requests evenly over refillPeriod and lets
// up to burst of them through back to back.
type TokenBucket struct {
	limit   rate.Limit
	burst   int
	limiter *rate.Limiter
	mu      sync.Mutex
}

// NewTokenBucket creates a token bucket. A burst below one is treated as
// one.
func NewTokenBucket(capacity int, refillPeriod time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	every := refillPeriod
	if capacity > 0 {
		every = refillPeriod / time.Duration(capacity)
	}
	limit := rate.Every(every)
	return &TokenBucket{
		limit:   limit,
		burst:   burst,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (tb *TokenBucket) current() *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limiter
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	return tb.current().Allow()
}

// Wait blocks until a token is available or ctx is done
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.current().Wait(ctx)
}

// Reset refills the bucket
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.limiter = rate.NewLimiter(tb.limit, tb.burst)
}

// SlidingWindow implements a sliding window rate limiter
type SlidingWindow struct {
	windowSize  time.Duration
	maxRequests int
	requests    []time.Time
	mu          sync.Mutex
}

// NewSlidingWindow creates a new sliding window rate limiter
func NewSlidingWindow(maxRequests int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		windowSize:  windowSize,
		maxRequests: maxRequests,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// Allow checks if a request can proceed
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}

	return false
}

// Wait blocks until a request is allowed or ctx is done
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for !sw.Allow() {
		sw.mu.Lock()
		timeToWait := 100 * time.Millisecond
		if len(sw.requests) > 0 {
			timeToWait = sw.windowSize - time.Since(sw.requests[0])
		}
		sw.mu.Unlock()

		if err := sleep(ctx, timeToWait); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears all recorded requests
func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.requests = sw.requests[:0]
}

// cleanOldRequests removes requests outside the sliding window
func (sw *SlidingWindow) cleanOldRequests(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.requests) && sw.requests[i].Before(cutoff) {
		i++
	}

	if i > 0 {
		copy(sw.requests, sw.requests[i:])
		sw.requests = sw.requests[:len(sw.requests)-i]
	}
}

// Chain requires every limiter to admit a request.
type Chain []Limiter

// Allow reports whether every limiter admits the request. Limiters before
// the first refusal have already consumed their slot.
func (c Chain) Allow() bool {
	for _, l := range c {
		if !l.Allow() {
			return false
		}
	}
	return true
}

// Wait waits on each limiter in turn
func (c Chain) Wait(ctx context.Context) error {
	for _, l := range c {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets every limiter
func (c Chain) Reset() {
	for _, l := range c {
		l.Reset()
	}
}
