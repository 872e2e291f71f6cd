package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", upload.ErrStorageUnavailable, err)
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return fmt.Errorf("%w: %w", upload.ErrObjectNotFound, err)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "NoSuchBucket":
		return fmt.Errorf("%w: %w", upload.ErrStorageUnavailable, err)
	case "QuotaExceeded", "EntityTooLarge", "XMinioStorageFull":
		return fmt.Errorf("%w: %w", upload.ErrStorageQuota, err)
	default:
		// catch everything else
		return fmt.Errorf("%w: %w", upload.ErrStorageWrite, err)
	}
}
