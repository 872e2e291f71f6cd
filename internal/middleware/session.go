package middleware

import (
	"errors"
	"net/http"

	"github.com/fhuszti/upload-relay-go/internal/api_context"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

const LoginPath = "/login"

var publicPaths = map[string]bool{
	LoginPath:  true,
	"/logout":  true,
	"/healthz": true,
}

// WithSession lets only callers holding a valid session cookie through; everyone else
// is sent to the login page. The verified session is stored in the request context.
func WithSession(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := mgr.FromRequest(r)
			if err != nil {
				rejected := errors.Is(err, session.ErrUnauthenticated) || errors.Is(err, session.ErrRevoked)
				if !rejected {
					// the token may still be good once the revocation store is back
					logger.Warnf(r.Context(), "⚠️  session check failed: %v", err)
				} else if _, cErr := r.Cookie(session.CookieName); cErr == nil {
					mgr.ClearCookie(w)
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(api_context.WithSession(r.Context(), sess)))
		})
	}
}
