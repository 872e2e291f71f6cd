package repository

import (
	"context"

	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

// NoopLedger is used when MARIADB_DSN is not set. Nothing is remembered.
type NoopLedger struct{}

// compile-time check: *NoopLedger must satisfy upload.Ledger
var _ upload.Ledger = (*NoopLedger)(nil)

func NewNoopLedger() *NoopLedger {
	return &NoopLedger{}
}

func (l *NoopLedger) Record(ctx context.Context, u *model.Upload) error {
	return nil
}

func (l *NoopLedger) UpdateStatus(ctx context.Context, id model.UploadID, status model.UploadStatus) error {
	return nil
}

func (l *NoopLedger) ListByStatus(ctx context.Context, status model.UploadStatus, limit int) ([]model.Upload, error) {
	return nil, nil
}

func (l *NoopLedger) GetByKey(ctx context.Context, bucket, key string) (*model.Upload, error) {
	return nil, upload.ErrUploadNotFound
}
