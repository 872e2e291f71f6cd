package storage

import (
	"context"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client minioClient
	region string
}

// compile-time check: *MinioStorage must satisfy upload.Storage
var _ upload.Storage = (*MinioStorage)(nil)

// NewMinioStorage connects to any S3-compatible endpoint. Without static keys the
// credentials come from the environment or the instance role.
func NewMinioStorage(endpoint, accessKey, secretKey, region string, useSSL bool) (*MinioStorage, error) {
	log.Println("initialising minio client...")

	var creds *credentials.Credentials
	if accessKey != "" {
		creds = credentials.NewStaticV4(accessKey, secretKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
			&credentials.IAM{},
		})
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{client: client, region: region}, nil
}

// InitBucket creates bucket when it does not exist yet.
func (s *MinioStorage) InitBucket(ctx context.Context, bucket string) error {
	ok, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		log.Printf("bucket %q does not exist, creating it...", bucket)
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return mapMinioErr(err)
		}
	}
	return nil
}

// SaveFile streams r into bucket under key and returns the key the backend reports.
func (s *MinioStorage) SaveFile(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (string, error) {
	logger.Debugf(ctx, "saving file %q into bucket %q...", key, bucket)

	info, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", mapMinioErr(err)
	}

	switch {
	case info.Key == "":
		return key, nil
	case info.Key != key:
		logger.Warn(ctx, "⚠️  storage backend rewrote the object key", "requested", key, "confirmed", info.Key)
	}
	return info.Key, nil
}

func (s *MinioStorage) StatFile(ctx context.Context, bucket, key string) (model.StoredObject, error) {
	logger.Debugf(ctx, "getting stats on file %q in bucket %q...", key, bucket)

	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return model.StoredObject{}, mapMinioErr(err)
	}
	return model.StoredObject{
		Bucket:      bucket,
		Key:         key,
		ContentType: info.ContentType,
		SizeBytes:   info.Size,
	}, nil
}

func (s *MinioStorage) GeneratePresignedDownloadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned download link for file %q in bucket %q...", key, bucket)

	presignedURL, err := s.client.PresignedGetObject(ctx, bucket, key, expiry, url.Values{})
	if err != nil {
		return "", mapMinioErr(err)
	}

	return presignedURL.String(), nil
}
