// Package guard keeps protected pages from rendering until the request's
// auth state is known, and sends anonymous clients to the login page.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aulavid/aulavid/internal/auth"
)

const DefaultLoginPath = "/login"

// State is the outcome of one guarded navigation.
type State int

const (
	Pending State = iota
	Allowed
	Redirected
)

func (s State) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case Redirected:
		return "redirected"
	default:
		return "pending"
	}
}

// Readiness is the part of the auth service a Gate depends on.
type Readiness interface {
	Ready() <-chan struct{}
	IsAuthenticated() bool
}

// Gate is the per-mount decision. A zero Gate is Pending with no timeout.
type Gate struct {
	// Timeout bounds the wait for readiness; on expiry the gate denies.
	// Zero waits until ctx is done.
	Timeout time.Duration

	state State
}

func (g *Gate) State() State {
	return g.state
}

// Resolve waits for svc to become ready and commits a decision. If ctx is
// done first it returns Pending and commits nothing.
func (g *Gate) Resolve(ctx context.Context, svc Readiness) State {
	if g.state != Pending || ctx.Err() != nil {
		return g.state
	}

	var expired <-chan time.Time
	if g.Timeout > 0 {
		timer := time.NewTimer(g.Timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-svc.Ready():
		// select picks at random when ctx is also done.
		if ctx.Err() != nil {
			return g.state
		}
		if svc.IsAuthenticated() {
			g.state = Allowed
		} else {
			g.state = Redirected
		}
	case <-expired:
		g.state = Redirected
	case <-ctx.Done():
	}
	return g.state
}

type Config struct {
	LoginPath string
	Timeout   time.Duration
	Metrics   *Metrics
}

type Guard struct {
	loginPath string
	timeout   time.Duration
	metrics   *Metrics
}

func New(cfg Config) *Guard {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return &Guard{loginPath: loginPath, timeout: cfg.Timeout, metrics: cfg.Metrics}
}

func (g *Guard) LoginPath() string {
	return g.loginPath
}

// Middleware serves next only for authenticated requests. It must run below
// auth.Provider.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		svc := auth.FromContext(r.Context())
		gate := &Gate{Timeout: g.timeout}

		start := time.Now()
		state := gate.Resolve(r.Context(), svc)
		g.metrics.observe(state, time.Since(start))

		switch state {
		case Allowed:
			next.ServeHTTP(w, r)
		case Redirected:
			slog.Debug("guard redirect", "path", r.URL.Path, "decision", state.String())
			http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
		default:
			slog.Debug("guard abandoned", "path", r.URL.Path, "error", r.Context().Err())
		}
	})
}
