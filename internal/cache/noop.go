package cache

import (
	"context"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/session"
)

// NoopRevocationStore is used when Redis is not configured: logout only clears the cookie.
type NoopRevocationStore struct{}

// compile-time check: *NoopRevocationStore must satisfy session.Revoker
var _ session.Revoker = (*NoopRevocationStore)(nil)

func NewNoop() *NoopRevocationStore {
	return &NoopRevocationStore{}
}

func (n *NoopRevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	return nil
}

func (n *NoopRevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	return false, nil
}
