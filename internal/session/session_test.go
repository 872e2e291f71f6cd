package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type fakeRevoker struct {
	revoked     map[string]time.Time
	RevokeErr   error
	IsRevokeErr error
}

func newFakeRevoker() *fakeRevoker { return &fakeRevoker{revoked: map[string]time.Time{}} }

func (f *fakeRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	if f.RevokeErr != nil {
		return f.RevokeErr
	}
	f.revoked[id] = until
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	if f.IsRevokeErr != nil {
		return false, f.IsRevokeErr
	}
	_, ok := f.revoked[id]
	return ok, nil
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, newFakeRevoker(), false)

	token, exp, err := m.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(exp); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry in %v; want ~1h", d)
	}

	sess, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !sess.Valid() {
		t.Error("expected valid session")
	}
	if sess.ID() == "" {
		t.Error("expected session id")
	}
	if !sess.ExpiresAt().Equal(exp.Truncate(time.Second)) {
		t.Errorf("ExpiresAt = %v; want %v", sess.ExpiresAt(), exp.Truncate(time.Second))
	}
}

func TestVerify_Rejects(t *testing.T) {
	m := NewManager("secret", time.Hour, newFakeRevoker(), false)
	other := NewManager("other-secret", time.Hour, newFakeRevoker(), false)
	forged, _, err := other.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expired := NewManager("secret", time.Hour, newFakeRevoker(), false)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	noneTok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "x",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	wrongIss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "x",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"other secret", forged},
		{"expired", stale},
		{"alg none", noneTok},
		{"wrong issuer", wrongIss},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sess, err := m.Verify(context.Background(), tc.token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if sess.Valid() {
				t.Error("expected zero session")
			}
		})
	}
}

func TestRevoke(t *testing.T) {
	rev := newFakeRevoker()
	m := NewManager("secret", time.Hour, rev, false)

	token, _, err := m.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := m.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if len(rev.revoked) != 1 {
		t.Fatalf("expected one revoked id, got %d", len(rev.revoked))
	}
	if _, err := m.Verify(context.Background(), token); !errors.Is(err, ErrRevoked) {
		t.Errorf("expected ErrRevoked, got %v", err)
	}
}

func TestRevoke_IgnoresGarbage(t *testing.T) {
	rev := newFakeRevoker()
	m := NewManager("secret", time.Hour, rev, false)

	if err := m.Revoke(context.Background(), "garbage"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := m.Revoke(context.Background(), ""); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if len(rev.revoked) != 0 {
		t.Errorf("expected nothing revoked, got %d", len(rev.revoked))
	}
}

func TestRevoke_StoreError(t *testing.T) {
	rev := newFakeRevoker()
	rev.RevokeErr = errors.New("redis down")
	m := NewManager("secret", time.Hour, rev, false)
	token, _, _ := m.Issue(context.Background())

	if err := m.Revoke(context.Background(), token); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestVerify_RevocationLookupError(t *testing.T) {
	rev := newFakeRevoker()
	m := NewManager("secret", time.Hour, rev, false)
	token, _, _ := m.Issue(context.Background())
	rev.IsRevokeErr = errors.New("redis down")

	if _, err := m.Verify(context.Background(), token); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestCookies(t *testing.T) {
	m := NewManager("secret", time.Hour, newFakeRevoker(), true)
	token, exp, _ := m.Issue(context.Background())

	rec := httptest.NewRecorder()
	m.WriteCookie(rec, token, exp)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != token || !c.HttpOnly || !c.Secure || c.Path != "/" {
		t.Errorf("unexpected cookie %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if sess, err := m.FromRequest(req); err != nil || !sess.Valid() {
		t.Errorf("FromRequest: sess=%v err=%v", sess, err)
	}

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 || cleared[0].Value != "" {
		t.Errorf("unexpected cleared cookie %+v", cleared)
	}
}

func TestFromRequest_NoCookie(t *testing.T) {
	m := NewManager("secret", time.Hour, newFakeRevoker(), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := m.FromRequest(req); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestMatchPasscode(t *testing.T) {
	tests := []struct {
		given, want string
		ok          bool
	}{
		{"letmein", "letmein", true},
		{"letmein ", "letmein", false},
		{"", "letmein", false},
		{"LETMEIN", "letmein", false},
	}
	for _, tc := range tests {
		if got := MatchPasscode(tc.given, tc.want); got != tc.ok {
			t.Errorf("MatchPasscode(%q, %q) = %v; want %v", tc.given, tc.want, got, tc.ok)
		}
	}
}
