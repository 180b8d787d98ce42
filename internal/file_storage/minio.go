package filestorage

import (
	"context"

	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinioClient returns nil without error when no endpoint is configured;
// experiment attachments are then unavailable.
func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

// EnsureBucket creates the attachment bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: "us-east-1"})
}
