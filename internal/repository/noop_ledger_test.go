package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

func TestNoopLedger(t *testing.T) {
	l := NewNoopLedger()
	ctx := context.Background()

	if err := l.Record(ctx, &model.Upload{ID: model.NewUploadID()}); err != nil {
		t.Errorf("Record: %v", err)
	}
	if err := l.UpdateStatus(ctx, model.NewUploadID(), model.UploadStatusSigned); err != nil {
		t.Errorf("UpdateStatus: %v", err)
	}
	rows, err := l.ListByStatus(ctx, model.UploadStatusSignFailed, 10)
	if err != nil || len(rows) != 0 {
		t.Errorf("ListByStatus = %v, %v; want empty", rows, err)
	}
	if _, err := l.GetByKey(ctx, "uploads", "k"); !errors.Is(err, upload.ErrUploadNotFound) {
		t.Errorf("GetByKey err = %v; want ErrUploadNotFound", err)
	}
}
