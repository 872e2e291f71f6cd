package model

import "time"

type UploadStatus string

const (
	UploadStatusStored     UploadStatus = "stored"
	UploadStatusSigned     UploadStatus = "signed"
	UploadStatusSignFailed UploadStatus = "sign_failed"
)

// StoredObject is what the object store confirmed for one upload.
type StoredObject struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

type SignedLink struct {
	URL       string    `json:"url"`
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Upload is one row of the upload ledger.
type Upload struct {
	ID          UploadID     `json:"id"`
	ObjectKey   string       `json:"object_key"`
	Bucket      string       `json:"bucket"`
	ContentType string       `json:"content_type"`
	SizeBytes   int64        `json:"size_bytes"`
	Label       string       `json:"label"`
	Status      UploadStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
