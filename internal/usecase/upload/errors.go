package upload

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile               = errors.New("no file uploaded")
	ErrConfiguration        = errors.New("server configuration error")
	ErrStorageUnavailable   = errors.New("storage: unavailable")
	ErrStorageQuota         = errors.New("storage: quota exceeded")
	ErrStorageWrite         = errors.New("storage: write failed")
	ErrObjectNotFound       = errors.New("storage: object not found")
	ErrSigning              = errors.New("signing failed")
	ErrNotificationDelivery = errors.New("notification delivery failed")
	ErrUploadNotFound       = errors.New("upload not found")
)

// StorageError carries what was attempted when the object store refused a write.
type StorageError struct {
	Bucket      string
	Key         string
	ContentType string
	Err         error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %q in bucket %q (%s): %v", e.Key, e.Bucket, e.ContentType, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SigningError means the object is stored but no link could be produced for it.
type SigningError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("sign %q in bucket %q: %v", e.Key, e.Bucket, e.Err)
}

func (e *SigningError) Unwrap() []error { return []error{ErrSigning, e.Err} }
