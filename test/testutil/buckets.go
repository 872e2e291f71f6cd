package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
)

// SetupTestBucket creates a fresh bucket with a unique name. The cleanup empties and removes it.
func SetupTestBucket(client *minio.Client, prefix string) (string, func() error, error) {
	ctx := context.Background()
	bucket := fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return "", nil, fmt.Errorf("could not create bucket %q: %w", bucket, err)
	}

	cleanup := func() error {
		for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := client.RemoveBucket(ctx, bucket); err != nil {
			return fmt.Errorf("could not remove bucket %q: %w", bucket, err)
		}
		return nil
	}

	return bucket, cleanup, nil
}
