package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mssola/useragent"

	"github.com/aulavid/aulavid/internal/auth"
)

// CountryLocator maps a client IP to an ISO country code, or "".
type CountryLocator interface {
	Country(ip string) string
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// requestLogger logs one line per request. It runs below auth.Provider so
// the session state of the page load can be attached.
func requestLogger(locator CountryLocator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if ua := r.UserAgent(); ua != "" {
				browser, _ := useragent.New(ua).Browser()
				attrs = append(attrs, "browser", browser)
			}
			if svc, ok := auth.Lookup(r.Context()); ok {
				attrs = append(attrs, "authenticated", svc.IsAuthenticated())
			}
			if locator != nil {
				if country := locator.Country(clientIP(r)); country != "" {
					attrs = append(attrs, "country", country)
				}
			}
			slog.Info("http request", attrs...)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
