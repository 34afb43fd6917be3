package minio

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"abstractdesk/internal/config"
	"abstractdesk/internal/port"
)

type minioClient struct {
	client *minio.Client
	region string
}

// NewMinioClient creates an ObjectStorage backed by a self-hosted
// S3-compatible server.
func NewMinioClient(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("init minio: storage endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &minioClient{client: client, region: cfg.Region}, nil
}

// EnsureBucket creates bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, store port.ObjectStorage, bucket string) error {
	c, ok := store.(*minioClient)
	if !ok {
		return nil
	}
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", bucket, err)
		}
	}
	return nil
}

func (c *minioClient) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	size := input.Size
	if size <= 0 {
		size = -1
	}
	info, err := c.client.PutObject(ctx, input.Bucket, input.Key, input.Body, size,
		minio.PutObjectOptions{ContentType: input.ContentType})
	if err != nil {
		return nil, fmt.Errorf("minio upload: %w", err)
	}
	return &port.UploadOutput{
		Location: info.Location,
		ETag:     info.ETag,
	}, nil
}

func (c *minioClient) Delete(ctx context.Context, bucket, key string) error {
	if err := c.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete: %w", err)
	}
	return nil
}

func (c *minioClient) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, bucket, key, time.Duration(expirySeconds)*time.Second, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio presign: %w", err)
	}
	return u.String(), nil
}
