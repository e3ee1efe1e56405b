package storage

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/storage_mocks.go -package=mocks

// ObjectStore is the subset of an S3-compatible API the media pipeline needs.
// Implementations return domain.ErrObjectNotFound when the store reports a
// missing key and a *domain.TransportError for anything else.
type ObjectStore interface {
	Head(ctx context.Context, key string) error
	Download(ctx context.Context, key string) (*Object, error)
	Upload(ctx context.Context, input UploadInput) error
	Delete(ctx context.Context, key string) error
}

type ImageTranscoder interface {
	Transcode(data []byte) (*TranscodedImage, error)
}

type UploadInput struct {
	Key          string
	Body         io.Reader
	ContentType  string
	CacheControl string
	Size         int64
}

// Object is an open object body. Callers must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	CacheControl  string
	ETag          string
	LastModified  time.Time
}

type TranscodedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}
