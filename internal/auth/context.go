package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/aulavid/aulavid/internal/session"
)

// ErrOutsideProvider is the panic value of FromContext when no Provider ran
// for the request.
var ErrOutsideProvider = errors.New("auth: used outside provider")

type providerKey struct{}

// StoreFactory opens the session store for one request.
type StoreFactory func(w http.ResponseWriter, r *http.Request) session.Store

// Provider builds and initialises a Service for every request and makes it
// available to the handlers below it.
func Provider(open StoreFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			svc := New(open(w, r))
			svc.Init()
			next.ServeHTTP(w, r.WithContext(WithService(r.Context(), svc)))
		})
	}
}

func WithService(ctx context.Context, svc *Service) context.Context {
	return context.WithValue(ctx, providerKey{}, svc)
}

// FromContext returns the request's Service. It panics with
// ErrOutsideProvider when called outside Provider.
func FromContext(ctx context.Context) *Service {
	svc, ok := Lookup(ctx)
	if !ok {
		panic(ErrOutsideProvider)
	}
	return svc
}

// Lookup is the non-panicking form of FromContext.
func Lookup(ctx context.Context) (*Service, bool) {
	svc, ok := ctx.Value(providerKey{}).(*Service)
	return svc, ok && svc != nil
}
