package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/config"
)

type MinioStorage struct {
	client *minio.Client
	bucket string
}

var _ storage.ObjectStore = (*MinioStorage)(nil)

func NewMinioStorage(cfg config.StorageConfig) (*MinioStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint, secure := splitEndpoint(cfg.Endpoint)

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
	}
	// minio-go resolves the bucket region itself when none is given.
	if cfg.Region != "" && cfg.Region != "auto" {
		opts.Region = cfg.Region
	}
	if cfg.UsePathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket}, nil
}

// splitEndpoint strips the scheme minio-go does not accept and reports
// whether TLS should be used. Bare host:port endpoints default to TLS.
func splitEndpoint(endpoint string) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	default:
		return strings.TrimSuffix(endpoint, "/"), true
	}
}

func (s *MinioStorage) Head(ctx context.Context, key string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return classifyMinioError("StatObject", key, err)
	}
	return nil
}

func (s *MinioStorage) Download(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyMinioError("GetObject", key, err)
	}

	// GetObject is lazy; Stat forces the request so a missing key fails here.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, classifyMinioError("GetObject", key, err)
	}

	return &storage.Object{
		Body:          obj,
		ContentType:   info.ContentType,
		ContentLength: info.Size,
		CacheControl:  info.Metadata.Get("Cache-Control"),
		ETag:          info.ETag,
		LastModified:  info.LastModified,
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, input storage.UploadInput) error {
	size := input.Size
	if size <= 0 {
		size = -1
	}

	_, err := s.client.PutObject(ctx, s.bucket, input.Key, input.Body, size, minio.PutObjectOptions{
		ContentType:  input.ContentType,
		CacheControl: input.CacheControl,
	})
	if err != nil {
		return classifyMinioError("PutObject", input.Key, err)
	}
	return nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return classifyMinioError("RemoveObject", key, err)
	}
	return nil
}
