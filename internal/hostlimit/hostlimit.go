// Package hostlimit bounds concurrent connections to a single hostname
// within one worker (spec §4.2, §4.3, §5 "Per-host politeness"). It
// generalizes the teacher's hand-rolled per-host token-bucket channel to
// a weighted semaphore, one per host, created lazily on first use.
package hostlimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds in-flight requests per host to at most limitPerHost.
type Limiter struct {
	limitPerHost int64

	mu    sync.Mutex
	hosts map[string]*semaphore.Weighted
}

// New returns a Limiter allowing up to limitPerHost concurrent
// connections to any single host.
func New(limitPerHost int) *Limiter {
	if limitPerHost <= 0 {
		limitPerHost = 1
	}
	return &Limiter{
		limitPerHost: int64(limitPerHost),
		hosts:        make(map[string]*semaphore.Weighted),
	}
}

// Acquire blocks until a connection slot for host is available or ctx is
// done. Callers must call the returned release func exactly once.
func (l *Limiter) Acquire(ctx context.Context, host string) (release func(), err error) {
	sem := l.semaphoreFor(host)
	if err := sem.Acquire(ctx, 1); err != nil {
		return func() {}, err
	}
	return func() { sem.Release(1) }, nil
}

// Host extracts the netloc/hostname sharding key from a URL, returning
// the empty string if rawURL cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func (l *Limiter) semaphoreFor(host string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.hosts[host]
	if !ok {
		sem = semaphore.NewWeighted(l.limitPerHost)
		l.hosts[host] = sem
	}
	return sem
}
