package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
)

const defaultBacklogLimit = 100

type ResignResult struct {
	Bucket string
	Key    string
	Link   model.SignedLink
	Err    error
}

// BacklogResigner produces fresh links for objects that were stored but never signed.
type BacklogResigner struct {
	ledger Ledger
	strg   Storage
	signer Signer
	ttl    time.Duration
}

func NewBacklogResigner(ledger Ledger, strg Storage, signer Signer, ttl time.Duration) *BacklogResigner {
	return &BacklogResigner{ledger: ledger, strg: strg, signer: signer, ttl: ttl}
}

// ResignBacklog re-signs up to limit ledger rows left in sign_failed.
// Per-row failures are reported in the results, not returned.
func (s *BacklogResigner) ResignBacklog(ctx context.Context, limit int) ([]ResignResult, error) {
	if limit <= 0 {
		limit = defaultBacklogLimit
	}
	rows, err := s.ledger.ListByStatus(ctx, model.UploadStatusSignFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsigned uploads: %w", err)
	}

	if len(rows) == 0 {
		logger.Info(ctx, "no uploads waiting for a link")
		return nil, nil
	}

	results := make([]ResignResult, 0, len(rows))
	for i := range rows {
		u := &rows[i]
		logger.Infof(ctx, "re-signing upload %q in bucket %q", u.ObjectKey, u.Bucket)
		res := s.resign(ctx, u.Bucket, u.ObjectKey)
		if res.Err == nil {
			s.markSigned(ctx, u)
		} else {
			logger.Warnf(ctx, "failed to re-sign upload %q: %v", u.ObjectKey, res.Err)
		}
		results = append(results, res)
	}
	return results, nil
}

// ResignKey signs one object by key, whether or not the ledger knows about it.
func (s *BacklogResigner) ResignKey(ctx context.Context, bucket, key string) (ResignResult, error) {
	res := s.resign(ctx, bucket, key)
	if res.Err != nil {
		return res, res.Err
	}

	u, err := s.ledger.GetByKey(ctx, bucket, key)
	switch {
	case errors.Is(err, ErrUploadNotFound):
		logger.Infof(ctx, "upload %q is not in the ledger", key)
	case err != nil:
		logger.Warnf(ctx, "could not look up upload %q in ledger: %v", key, err)
	case u != nil && u.Status != model.UploadStatusSigned:
		s.markSigned(ctx, u)
	}
	return res, nil
}

func (s *BacklogResigner) resign(ctx context.Context, bucket, key string) ResignResult {
	res := ResignResult{Bucket: bucket, Key: key}
	if _, err := s.strg.StatFile(ctx, bucket, key); err != nil {
		res.Err = fmt.Errorf("stat %q: %w", key, err)
		return res
	}
	res.Link, res.Err = s.signer.Sign(ctx, bucket, key, s.ttl)
	return res
}

func (s *BacklogResigner) markSigned(ctx context.Context, u *model.Upload) {
	if err := s.ledger.UpdateStatus(ctx, u.ID, model.UploadStatusSigned); err != nil {
		logger.Warnf(ctx, "could not mark upload %q as signed: %v", u.ObjectKey, err)
	}
}
