package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

const objectPrefix = "kv/"

// MinIOStore keeps each value as one object in a bucket
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore connects and checks that the bucket exists
func NewMinIOStore(ctx context.Context, cfg models.MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "minio:9000"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "invoices"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStore{client: client, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// objectName maps a key to its object path
func objectName(key string) string {
	return objectPrefix + key
}

func (s *MinIOStore) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(b), nil
}

func (s *MinIOStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName(key), strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *MinIOStore) Clear(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName(key), minio.RemoveObjectOptions{})
}

func (s *MinIOStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

func (s *MinIOStore) Close() {}
