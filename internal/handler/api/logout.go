package api

import (
	"net/http"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

func LogoutHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c, err := r.Cookie(session.CookieName); err == nil {
			if err := mgr.Revoke(ctx, c.Value); err != nil {
				// the cookie is cleared anyway
				logger.Warnf(ctx, "⚠️  could not revoke session: %v", err)
			}
		}
		mgr.ClearCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
