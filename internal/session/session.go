// Package session mints and verifies the passcode session cookie.
//
// An Authenticated value can only be obtained from Manager.Verify, so code that receives one
// knows the caller passed the gate.
package session

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	CookieName = "upload_relay_session"
	issuer     = "upload-relay"
)

var (
	ErrUnauthenticated = errors.New("session not authenticated")
	ErrRevoked         = errors.New("session revoked")
)

// Authenticated is the proof that a request carries a valid session.
type Authenticated struct {
	id        string
	expiresAt time.Time
}

func (a Authenticated) Valid() bool          { return a.id != "" }
func (a Authenticated) ID() string           { return a.id }
func (a Authenticated) ExpiresAt() time.Time { return a.expiresAt }

// Revoker keeps track of sessions ended before their natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	secure  bool
	now     func() time.Time
	parser  *jwt.Parser
}

func NewManager(secret string, ttl time.Duration, revoker Revoker, secure bool) *Manager {
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoker: revoker,
		secure:  secure,
		now:     time.Now,
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

// MatchPasscode compares digests so neither content nor length leaks through timing.
func MatchPasscode(given, want string) bool {
	g := sha256.Sum256([]byte(given))
	w := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(g[:], w[:]) == 1
}

// Issue signs a fresh session token.
func (m *Manager) Issue(ctx context.Context) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, exp, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected signing method")
	}
	return m.secret, nil
}

// Verify checks signature, expiry, issuer and revocation.
func (m *Manager) Verify(ctx context.Context, token string) (Authenticated, error) {
	if token == "" {
		return Authenticated{}, ErrUnauthenticated
	}
	claims := &jwt.RegisteredClaims{}
	tok, err := m.parser.ParseWithClaims(token, claims, m.keyFunc)
	if err != nil || !tok.Valid {
		return Authenticated{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !claims.VerifyIssuer(issuer, true) || claims.ID == "" || claims.ExpiresAt == nil {
		return Authenticated{}, ErrUnauthenticated
	}

	revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Authenticated{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Authenticated{}, ErrRevoked
	}

	return Authenticated{id: claims.ID, expiresAt: claims.ExpiresAt.Time}, nil
}

// FromRequest verifies the session cookie carried by r.
func (m *Manager) FromRequest(r *http.Request) (Authenticated, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Authenticated{}, ErrUnauthenticated
	}
	return m.Verify(r.Context(), c.Value)
}

// Revoke ends the session behind token. Expired or malformed tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims := &jwt.RegisteredClaims{}
	p := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := p.ParseWithClaims(token, claims, m.keyFunc); err != nil {
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil || !claims.ExpiresAt.After(m.now()) {
		return nil
	}
	if err := m.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session %s: %w", claims.ID, err)
	}
	return nil
}

func (m *Manager) WriteCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
