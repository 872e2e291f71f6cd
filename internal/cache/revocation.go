package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/session"
	"github.com/redis/go-redis/v9"
)

// RevocationStore is a Redis deny-list of session ids logged out before expiry.
type RevocationStore struct {
	client *redis.Client
}

// compile-time check: *RevocationStore must satisfy session.Revoker
var _ session.Revoker = (*RevocationStore)(nil)

func NewRevocationStore(addr, password string) *RevocationStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &RevocationStore{client: rdb}
}

func (c *RevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	log.Printf("revoking session #%s until %s...", id, until.Format(time.RFC1123))

	if err := c.client.Set(ctx, getRevocationKey(id), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := c.client.Get(ctx, getRevocationKey(id)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	return true, nil
}

func (c *RevocationStore) Close() error {
	return c.client.Close()
}

func getRevocationKey(id string) string {
	return "session:revoked:" + id
}
