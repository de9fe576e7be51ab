package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound provider calls per host. Every host gets an
// independent token bucket so a slow search API cannot starve the agent host.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	perSec  rate.Limit
	burst   int
}

// NewLimiter creates a limiter with a shared per-host rate.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		perSec:  rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// Wait blocks until the host of rawURL has capacity or ctx ends.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	b, err := l.bucket(rawURL)
	if err != nil {
		return err
	}
	return b.Wait(ctx)
}

// Allow reports whether a call to rawURL may proceed right now.
func (l *Limiter) Allow(rawURL string) bool {
	b, err := l.bucket(rawURL)
	if err != nil {
		return false
	}
	return b.Allow()
}

func (l *Limiter) bucket(rawURL string) (*rate.Limiter, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	host := parsed.Host

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[host]
	if !ok {
		b = rate.NewLimiter(l.perSec, l.burst)
		l.buckets[host] = b
	}
	return b, nil
}
