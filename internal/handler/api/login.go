package api

import (
	"net/http"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

// LoginFormHandler shows the passcode form, or sends signed-in callers home.
func LoginFormHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := mgr.FromRequest(r); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		RespondHTML(r.Context(), w, http.StatusOK, loginPage, loginView{})
	}
}

// LoginHandler exchanges the shared passcode for a session cookie.
func LoginHandler(mgr *session.Manager, passcode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			WriteText(ctx, w, http.StatusBadRequest, "Invalid form.", err)
			return
		}

		if !session.MatchPasscode(r.PostFormValue("passcode"), passcode) {
			logger.Warn(ctx, "⚠️  rejected login attempt", "remote", r.RemoteAddr)
			RespondHTML(ctx, w, http.StatusOK, loginPage, loginView{Error: "Invalid passcode."})
			return
		}

		token, exp, err := mgr.Issue(ctx)
		if err != nil {
			WriteText(ctx, w, http.StatusInternalServerError, "Could not start session.", err)
			return
		}
		mgr.WriteCookie(w, token, exp)

		logger.Info(ctx, "session started", "expires_at", exp)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
