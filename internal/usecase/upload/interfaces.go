package upload

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

type KeyDeriver interface {
	Derive(filename string) (string, error)
}

type Storage interface {
	// SaveFile returns the key the backend confirmed, which callers must use from then on.
	SaveFile(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (string, error)
	StatFile(ctx context.Context, bucket, key string) (model.StoredObject, error)
	GeneratePresignedDownloadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

type Signer interface {
	Sign(ctx context.Context, bucket, key string, ttl time.Duration) (model.SignedLink, error)
}

// NotificationDispatcher hands a message off without waiting for delivery.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, msg model.Notification)
}

type Ledger interface {
	Record(ctx context.Context, u *model.Upload) error
	UpdateStatus(ctx context.Context, id model.UploadID, status model.UploadStatus) error
	ListByStatus(ctx context.Context, status model.UploadStatus, limit int) ([]model.Upload, error)
	GetByKey(ctx context.Context, bucket, key string) (*model.Upload, error)
}

// FileRelayer is what the HTTP layer needs from the upload flow.
type FileRelayer interface {
	Relay(ctx context.Context, sess session.Authenticated, in RelayInput) (*RelayOutput, error)
}
