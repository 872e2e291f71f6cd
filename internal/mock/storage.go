package mock

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/model"
)

// Storage implements the storage interface for tests.
type Storage struct {
	// stored values
	ConfirmedKey string
	StatOut      model.StoredObject
	URLOut       string

	// captured inputs
	Bucket      string
	ObjectKey   string
	ContentType string
	Size        int64
	Body        []byte
	TTL         time.Duration

	// errors
	SaveErr                 error
	StatErr                 error
	GenerateDownloadLinkErr error

	// call flags
	SaveCalled                 bool
	StatCalled                 bool
	GenerateDownloadLinkCalled bool
}

func (m *Storage) SaveFile(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (string, error) {
	m.SaveCalled = true
	m.Bucket = bucket
	m.ObjectKey = key
	m.ContentType = contentType
	m.Size = size
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	if r != nil {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		m.Body = b
	}
	if m.ConfirmedKey != "" {
		return m.ConfirmedKey, nil
	}
	return key, nil
}

func (m *Storage) StatFile(ctx context.Context, bucket, key string) (model.StoredObject, error) {
	m.StatCalled = true
	m.Bucket = bucket
	m.ObjectKey = key
	if m.StatErr != nil {
		return model.StoredObject{}, m.StatErr
	}
	out := m.StatOut
	out.Bucket, out.Key = bucket, key
	return out, nil
}

func (m *Storage) GeneratePresignedDownloadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	m.GenerateDownloadLinkCalled = true
	m.Bucket = bucket
	m.ObjectKey = key
	m.TTL = expiry
	if m.GenerateDownloadLinkErr != nil {
		return "", m.GenerateDownloadLinkErr
	}
	if m.URLOut != "" {
		return m.URLOut, nil
	}
	return "https://example.com/download/" + key + "?X-Amz-Signature=abc", nil
}
