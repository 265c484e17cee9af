package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/config"
)

// MinioStore is the S3/MinIO backed FileStore for appraisal attachments.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	region    string
	urlExpiry time.Duration
}

// NewMinioStore creates a MinIO client from the Config.
func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		urlExpiry: time.Duration(cfg.URLExpirySeconds) * time.Second,
	}, nil
}

// EnsureBucket makes sure the attachment bucket exists before use.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Store uploads one attachment and returns a presigned GET URL for it.
// Object keys are prefixed with a random id so name collisions never
// overwrite an earlier upload.
func (s *MinioStore) Store(ctx context.Context, input UploadInput) (string, error) {
	objectKey := path.Join(uuid.NewString(), input.FileName)
	opts := minio.PutObjectOptions{ContentType: input.ContentType}
	if _, err := s.client.PutObject(ctx, s.bucket, objectKey, input.Reader, input.Size, opts); err != nil {
		return "", fmt.Errorf("upload object %s: %w", objectKey, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.urlExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", objectKey, err)
	}
	return u.String(), nil
}
