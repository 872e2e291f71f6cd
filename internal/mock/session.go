package mock

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/cache"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

const SessionSecret = "test-session-secret"

func SessionManager() *session.Manager {
	return session.NewManager(SessionSecret, time.Hour, cache.NewNoop(), false)
}

// Session mints a verified session the way the gate would.
func Session(t *testing.T) session.Authenticated {
	t.Helper()
	m := SessionManager()
	token, _, err := m.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	sess, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify session: %v", err)
	}
	return sess
}

// SessionCookie returns a cookie accepted by SessionManager.
func SessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, exp, err := SessionManager().Issue(context.Background())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: token, Path: "/", Expires: exp}
}
