package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aulavid/aulavid/internal/httputil"
)

type SecurityConfig struct {
	BaseURL string
	// MediaOrigin is where thumbnails are served from, usually the API host.
	MediaOrigin string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := hasHTTPS(cfg.BaseURL)

	mediaSuffix := ""
	if cfg.MediaOrigin != "" {
		mediaSuffix = " " + cfg.MediaOrigin
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.GenerateNonce()
			ctx := httputil.ContextWithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data:%s; script-src 'self' 'nonce-%s'; style-src 'self' 'nonce-%s'; form-action 'self'; frame-ancestors 'none';",
				mediaSuffix, nonce, nonce,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasHTTPS(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}
