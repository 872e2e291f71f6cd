package mock

import (
	"context"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/model"
)

type Signer struct {
	Out model.SignedLink
	Err error

	Called bool
	Bucket string
	Key    string
	TTL    time.Duration
}

func (m *Signer) Sign(ctx context.Context, bucket, key string, ttl time.Duration) (model.SignedLink, error) {
	m.Called = true
	m.Bucket = bucket
	m.Key = key
	m.TTL = ttl
	if m.Err != nil {
		return model.SignedLink{}, m.Err
	}
	out := m.Out
	if out.URL == "" {
		out.URL = "https://example.com/download/" + key + "?X-Amz-Signature=abc"
	}
	out.Bucket, out.Key = bucket, key
	return out, nil
}
