// Package ratelimit is a per-client token bucket used in front of the login
// form.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	sweepInterval = 5 * time.Minute
	idleTimeout   = 10 * time.Minute
)

type visitor struct {
	tokens   float64
	lastSeen time.Time
}

type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     float64
	burst    float64
	denied   http.Handler
	now      func() time.Time
}

// NewLimiter starts a background sweep of idle clients that stops when ctx
// is done.
func NewLimiter(ctx context.Context, requestsPerSecond float64, burst int) *Limiter {
	l := &Limiter{
		visitors: make(map[string]*visitor),
		rate:     requestsPerSecond,
		burst:    float64(burst),
		denied:   http.HandlerFunc(tooManyRequests),
		now:      time.Now,
	}
	go l.sweep(ctx)
	return l
}

// OnDenied replaces the default plain-text 429 response. Retry-After is set
// before h runs.
func (l *Limiter) OnDenied(h http.Handler) *Limiter {
	l.denied = h
	return l
}

func (l *Limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, exists := l.visitors[key]
	if !exists {
		l.visitors[key] = &visitor{tokens: l.burst - 1, lastSeen: now}
		return true
	}

	v.tokens += now.Sub(v.lastSeen).Seconds() * l.rate
	v.lastSeen = now
	if v.tokens > l.burst {
		v.tokens = l.burst
	}

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

func (l *Limiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *Limiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTimeout {
			delete(l.visitors, key)
		}
	}
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "10")
			l.denied.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the remote host. Forwarding headers are client controlled and
// only count once a trusted proxy middleware has rewritten RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "too many requests", http.StatusTooManyRequests)
}
