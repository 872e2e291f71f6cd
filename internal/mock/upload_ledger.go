package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/upload-relay-go/internal/model"
)

// Ledger implements the upload ledger for tests.
type Ledger struct {
	mu sync.Mutex

	// Block makes Record and UpdateStatus wait for their context to end.
	Block bool

	ListOut []model.Upload
	GetOut  *model.Upload

	RecordErr error
	UpdateErr error
	ListErr   error
	GetErr    error

	Recorded     []model.Upload
	Updates      map[model.UploadID]model.UploadStatus
	ListCalled   bool
	GetCalled    bool
	UpdateCalled bool
}

func (m *Ledger) Record(ctx context.Context, u *model.Upload) error {
	if m.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Recorded = append(m.Recorded, *u)
	return nil
}

func (m *Ledger) UpdateStatus(ctx context.Context, id model.UploadID, status model.UploadStatus) error {
	m.mu.Lock()
	m.UpdateCalled = true
	m.mu.Unlock()
	if m.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.Updates == nil {
		m.Updates = map[model.UploadID]model.UploadStatus{}
	}
	m.Updates[id] = status
	return nil
}

func (m *Ledger) ListByStatus(ctx context.Context, status model.UploadStatus, limit int) ([]model.Upload, error) {
	m.ListCalled = true
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

func (m *Ledger) GetByKey(ctx context.Context, bucket, key string) (*model.Upload, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.GetOut, nil
}
