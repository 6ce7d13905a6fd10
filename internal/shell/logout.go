package shell

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aulavid/aulavid/internal/auth"
)

const revokeTimeout = 10 * time.Second

// Revoker invalidates a refresh token on the remote API.
type Revoker interface {
	Logout(ctx context.Context, access, refresh string) error
}

// LogoutHandler logs the browser out and sends it to loginPath. The remote
// revoke runs in the background and its outcome never blocks the redirect.
func LogoutHandler(revoker Revoker, loginPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc := auth.FromContext(r.Context())
		access, refresh := svc.AccessToken(), svc.RefreshToken()

		svc.Logout()

		if revoker != nil && refresh != "" {
			ctx := context.WithoutCancel(r.Context())
			go func() {
				ctx, cancel := context.WithTimeout(ctx, revokeTimeout)
				defer cancel()
				if err := revoker.Logout(ctx, access, refresh); err != nil {
					slog.Warn("failed to revoke refresh token", "error", err)
				}
			}()
		}

		http.Redirect(w, r, loginPath, http.StatusSeeOther)
	}
}
