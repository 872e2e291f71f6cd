package mariadb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
	"github.com/google/uuid"
)

var (
	mockID  = model.MustParseUploadID("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	created = time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
)

func newRepo(t *testing.T) (*UploadRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewUploadRepository(sqlDB), mock
}

func idBytes(t *testing.T) []byte {
	t.Helper()
	b, err := uuid.UUID(mockID).MarshalBinary()
	if err != nil {
		t.Fatalf("marshal id: %v", err)
	}
	return b
}

func uploadRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"id", "object_key", "bucket", "content_type", "size_bytes", "label", "status", "created_at", "updated_at",
	})
}

func TestUploadRepository_Record_Success(t *testing.T) {
	repo, mock := newRepo(t)
	u := &model.Upload{
		ID:          mockID,
		ObjectKey:   "report-1700000000000.pdf",
		Bucket:      "uploads",
		ContentType: "application/pdf",
		SizeBytes:   1234,
		Label:       "Blue Team",
		Status:      model.UploadStatusStored,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO uploads`)).
		WithArgs(u.ID, u.ObjectKey, u.Bucket, u.ContentType, u.SizeBytes, u.Label, u.Status).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Record(context.Background(), u); err != nil {
		t.Errorf("Record() returned unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUploadRepository_Record_ExecError(t *testing.T) {
	repo, mock := newRepo(t)
	dbErr := errors.New("insert failed")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO uploads`)).
		WillReturnError(dbErr)

	err := repo.Record(context.Background(), &model.Upload{ID: mockID, Status: model.UploadStatusStored})
	if !errors.Is(err, dbErr) {
		t.Errorf("expected wrapped %v, got %v", dbErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUploadRepository_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		result  driver.Result
		execErr error
		wantErr error
	}{
		{name: "one row updated", result: sqlmock.NewResult(0, 1)},
		{name: "no row matched", result: sqlmock.NewResult(0, 0), wantErr: upload.ErrUploadNotFound},
		{name: "exec error", execErr: sql.ErrConnDone, wantErr: sql.ErrConnDone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			exp := mock.ExpectExec(regexp.QuoteMeta(`UPDATE uploads SET status = ? WHERE id = ?`)).
				WithArgs(model.UploadStatusSigned, mockID)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(tc.result)
			}

			err := repo.UpdateStatus(context.Background(), mockID, model.UploadStatusSigned)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestUploadRepository_ListByStatus(t *testing.T) {
	repo, mock := newRepo(t)

	rows := uploadRows(t).
		AddRow(idBytes(t), "a-1.pdf", "uploads", "application/pdf", int64(10), "Red", "sign_failed", created, created).
		AddRow(idBytes(t), "b-2.png", "uploads", "image/png", int64(20), "", "sign_failed", created, created)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM uploads`)).
		WithArgs(model.UploadStatusSignFailed, 50).
		WillReturnRows(rows)

	got, err := repo.ListByStatus(context.Background(), model.UploadStatusSignFailed, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows; want 2", len(got))
	}
	if got[0].ID != mockID || got[0].ObjectKey != "a-1.pdf" || got[0].Status != model.UploadStatusSignFailed {
		t.Errorf("unexpected first row %+v", got[0])
	}
	if got[1].SizeBytes != 20 || got[1].Label != "" || !got[1].CreatedAt.Equal(created) {
		t.Errorf("unexpected second row %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUploadRepository_ListByStatus_QueryError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM uploads`)).WillReturnError(sql.ErrConnDone)

	if _, err := repo.ListByStatus(context.Background(), model.UploadStatusSignFailed, 10); !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("expected ErrConnDone, got %v", err)
	}
}

func TestUploadRepository_GetByKey(t *testing.T) {
	repo, mock := newRepo(t)

	rows := uploadRows(t).
		AddRow(idBytes(t), "report-1700000000000.pdf", "uploads", "application/pdf", int64(8), "Blue Team", "signed", created, created)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE bucket = ? AND object_key = ?`)).
		WithArgs("uploads", "report-1700000000000.pdf").
		WillReturnRows(rows)

	got, err := repo.GetByKey(context.Background(), "uploads", "report-1700000000000.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != mockID || got.Label != "Blue Team" || got.Status != model.UploadStatusSigned {
		t.Errorf("unexpected row %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUploadRepository_GetByKey_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE bucket = ? AND object_key = ?`)).
		WithArgs("uploads", "missing.pdf").
		WillReturnRows(uploadRows(t))

	_, err := repo.GetByKey(context.Background(), "uploads", "missing.pdf")
	if !errors.Is(err, upload.ErrUploadNotFound) {
		t.Fatalf("expected ErrUploadNotFound, got %v", err)
	}
}
