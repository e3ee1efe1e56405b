package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/config"
)

// S3API is the part of *s3.Client used outside of uploads.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Uploader is satisfied by *manager.Uploader, which switches to multipart
// transfers for bodies larger than one part.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Storage struct {
	client   S3API
	uploader Uploader
	bucket   string
}

var _ storage.ObjectStore = (*S3Storage)(nil)

func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = cfg.UsePathStyle
		// S3-compatible stores reject the SDK's default trailing checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.UploadPartSize >= manager.MinUploadPartSize {
			u.PartSize = cfg.UploadPartSize
		}
		if cfg.UploadConcurrency > 0 {
			u.Concurrency = cfg.UploadConcurrency
		}
	})

	return NewS3StorageWithClient(client, uploader, cfg.Bucket), nil
}

func NewS3StorageWithClient(client S3API, uploader Uploader, bucket string) *S3Storage {
	return &S3Storage{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
	}
}

func (s *S3Storage) Head(ctx context.Context, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error("HeadObject", key, err)
	}
	return nil
}

func (s *S3Storage) Download(ctx context.Context, key string) (*storage.Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error("GetObject", key, err)
	}

	return &storage.Object{
		Body:          out.Body,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		CacheControl:  aws.ToString(out.CacheControl),
		ETag:          aws.ToString(out.ETag),
		LastModified:  aws.ToTime(out.LastModified),
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, input storage.UploadInput) error {
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
	}
	if input.CacheControl != "" {
		params.CacheControl = aws.String(input.CacheControl)
	}
	if input.Size > 0 {
		params.ContentLength = aws.Int64(input.Size)
	}

	if _, err := s.uploader.Upload(ctx, params); err != nil {
		return classifyS3Error("PutObject", input.Key, fmt.Errorf("uploading to s3: %w", err))
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error("DeleteObject", key, err)
	}
	return nil
}
