package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/cache"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

func TestRevocationStore_WithSessionManager(t *testing.T) {
	store := cache.NewRevocationStore(RedisAddr, "")
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	mgr := session.NewManager("integration-secret", time.Hour, store, false)

	token, _, err := mgr.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := mgr.Verify(ctx, token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	if err := mgr.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := mgr.Verify(ctx, token); !errors.Is(err, session.ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}

	// a different session stays valid
	other, _, err := mgr.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := mgr.Verify(ctx, other); err != nil {
		t.Errorf("unrelated token rejected: %v", err)
	}
}
