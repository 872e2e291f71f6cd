package upload

import (
	"context"
	"net/url"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
)

const DefaultLinkTTL = 300 * time.Second

type LinkSigner struct {
	strg Storage
	now  func() time.Time
}

// compile-time check: *LinkSigner must satisfy Signer
var _ Signer = (*LinkSigner)(nil)

func NewLinkSigner(strg Storage, now func() time.Time) *LinkSigner {
	if now == nil {
		now = time.Now
	}
	return &LinkSigner{strg: strg, now: now}
}

// Sign presigns a GET for bucket/key. A missing bucket fails before the backend is asked.
func (s *LinkSigner) Sign(ctx context.Context, bucket, key string, ttl time.Duration) (model.SignedLink, error) {
	if bucket == "" {
		logger.Error(ctx, "❌  cannot sign link: storage bucket is not configured", "key", key)
		return model.SignedLink{}, ErrConfiguration
	}
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	signedAt := s.now()
	raw, err := s.strg.GeneratePresignedDownloadURL(ctx, bucket, key, ttl)
	if err != nil {
		return model.SignedLink{}, &SigningError{Bucket: bucket, Key: key, Err: err}
	}
	if u, perr := url.Parse(raw); perr != nil || u.RawQuery == "" {
		logger.Warn(ctx, "⚠️  signed link carries no query string, it may not be authorised", "bucket", bucket, "key", key)
	}

	return model.SignedLink{
		URL:       raw,
		Bucket:    bucket,
		Key:       key,
		ExpiresAt: signedAt.Add(ttl),
	}, nil
}
