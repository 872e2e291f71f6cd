package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	MinIOUser     = "minioadmin"
	MinIOPassword = "minioadmin"
	MinIORegion   = "us-east-1"
)

type MinIOContainerInfo struct {
	Endpoint string
	Client   *minio.Client
	Strg     *storage.MinioStorage
	Cleanup  func()
}

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	const (
		image        = "minio/minio"
		tag          = "latest"
		internalPort = "9000/tcp"
	)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: image,
		Tag:        tag,
		Env: []string{
			fmt.Sprintf("MINIO_ROOT_USER=%s", MinIOUser),
			fmt.Sprintf("MINIO_ROOT_PASSWORD=%s", MinIOPassword),
		},
		Cmd: []string{"server", "/data"},
	}, func(hostConfig *docker.HostConfig) {
		hostConfig.AutoRemove = true
		hostConfig.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start minio container: %w", err)
	}

	var (
		endpoint string
		client   *minio.Client
	)
	if err := pool.Retry(func() error {
		endpoint = fmt.Sprintf("localhost:%s", resource.GetPort(internalPort))
		c, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(MinIOUser, MinIOPassword, ""),
			Region: MinIORegion,
			Secure: false,
		})
		if err != nil {
			return err
		}
		// ListBuckets is a light operation to check health
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := c.ListBuckets(ctx); err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("minio did not become ready: %w", err)
	}

	strg, err := storage.NewMinioStorage(endpoint, MinIOUser, MinIOPassword, MinIORegion, false)
	if err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("could not create storage client: %w", err)
	}

	return &MinIOContainerInfo{
		Endpoint: endpoint,
		Client:   client,
		Strg:     strg,
		Cleanup: func() {
			if err := pool.Purge(resource); err != nil {
				logger.Warnf(context.Background(), "could not purge minio container: %s", err)
			}
		},
	}, nil
}
