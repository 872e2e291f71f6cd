package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

type UploadRepository struct {
	db *sql.DB
}

// compile-time check: *UploadRepository must satisfy upload.Ledger
var _ upload.Ledger = (*UploadRepository)(nil)

func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

const uploadColumns = `id, object_key, bucket, content_type, size_bytes, label, status, created_at, updated_at`

func (r *UploadRepository) Record(ctx context.Context, u *model.Upload) error {
	logger.Debugf(ctx, "recording upload #%s (%s/%s) at status %q...", u.ID, u.Bucket, u.ObjectKey, u.Status)

	const query = `
      INSERT INTO uploads
        (id, object_key, bucket, content_type, size_bytes, label, status)
      VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.ObjectKey, u.Bucket,
		u.ContentType, u.SizeBytes,
		u.Label, u.Status,
	)
	if err != nil {
		return fmt.Errorf("insert upload %s: %w", u.ID, err)
	}
	return nil
}

func (r *UploadRepository) UpdateStatus(ctx context.Context, id model.UploadID, status model.UploadStatus) error {
	logger.Debugf(ctx, "setting upload #%s to status %q...", id, status)

	const query = `UPDATE uploads SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update upload %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update upload %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update upload %s: %w", id, upload.ErrUploadNotFound)
	}
	return nil
}

// ListByStatus returns the oldest rows at status first.
func (r *UploadRepository) ListByStatus(ctx context.Context, status model.UploadStatus, limit int) ([]model.Upload, error) {
	const query = `
      SELECT ` + uploadColumns + `
      FROM uploads
      WHERE status = ?
      ORDER BY created_at ASC
      LIMIT ?
    `
	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads at status %q: %w", status, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Upload
	for rows.Next() {
		var u model.Upload
		if err := scanUpload(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list uploads at status %q: %w", status, err)
	}
	return out, nil
}

func (r *UploadRepository) GetByKey(ctx context.Context, bucket, key string) (*model.Upload, error) {
	const query = `
      SELECT ` + uploadColumns + `
      FROM uploads
      WHERE bucket = ? AND object_key = ?
      ORDER BY created_at DESC
      LIMIT 1
    `
	var u model.Upload
	if err := scanUpload(r.db.QueryRowContext(ctx, query, bucket, key), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, upload.ErrUploadNotFound
		}
		return nil, err
	}
	return &u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner, u *model.Upload) error {
	return s.Scan(
		&u.ID, &u.ObjectKey, &u.Bucket,
		&u.ContentType, &u.SizeBytes,
		&u.Label, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
}
