package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/domain"
	"github.com/marcos-nsantos/media-storage-adapter/internal/domain/entity"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/metrics"
)

// CacheControl is set on every upload. Keys are never reused, so objects
// can be cached for a year.
const CacheControl = "public, max-age=31536000"

const (
	opExists = "exists"
	opSave   = "save"
	opServe  = "serve"
	opDelete = "delete"
	opRead   = "read"
)

type Config struct {
	PublicDomain string
}

// Service turns host storage calls into object store requests and applies
// the transcoding policy on the write path.
type Service struct {
	store        storage.ObjectStore
	transcoder   storage.ImageTranscoder
	publicDomain string
	logger       *zap.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*Service)

// WithClock replaces the time source used for key date partitions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the random id source used for keys.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(
	store storage.ObjectStore,
	transcoder storage.ImageTranscoder,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) (*Service, error) {
	cfgErr := &domain.ConfigurationError{}
	if store == nil {
		cfgErr.Missing = append(cfgErr.Missing, "object store")
	}
	if transcoder == nil {
		cfgErr.Missing = append(cfgErr.Missing, "image transcoder")
	}
	if cfg.PublicDomain == "" {
		cfgErr.Missing = append(cfgErr.Missing, "STORAGE_PUBLIC_DOMAIN")
	}
	if cfgErr.HasProblems() {
		return nil, cfgErr
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:        store,
		transcoder:   transcoder,
		publicDomain: cfg.PublicDomain,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type Image struct {
	Path        string
	Name        string
	ContentType string
}

// Stat reports whether key exists. Only an explicit not-found answer from the
// store yields false; any other failure yields true together with the error.
func (s *Service) Stat(ctx context.Context, key string) (bool, error) {
	err := s.store.Head(ctx, key)
	switch {
	case err == nil:
		metrics.ObserveOperation(opExists, metrics.StatusOK)
		return true, nil
	case errors.Is(err, domain.ErrObjectNotFound):
		metrics.ObserveOperation(opExists, metrics.StatusNotFound)
		return false, nil
	default:
		metrics.ObserveOperation(opExists, metrics.StatusError)
		return true, err
	}
}

// Exists collapses Stat to a boolean. Ambiguous failures count as existing so
// the host never overwrites an object whose state is unknown.
func (s *Service) Exists(ctx context.Context, key string) bool {
	exists, err := s.Stat(ctx, key)
	if err != nil {
		s.logger.Warn("existence check failed, assuming object exists",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return exists
}

func (s *Service) Save(ctx context.Context, img Image) (*entity.StoredObject, error) {
	obj, err := s.save(ctx, img)
	if err != nil {
		metrics.ObserveOperation(opSave, metrics.StatusError)
		s.logger.Error("saving upload failed",
			zap.String("path", img.Path),
			zap.String("name", img.Name),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ObserveOperation(opSave, metrics.StatusOK)
	s.logger.Info("upload saved",
		zap.String("key", obj.Key),
		zap.String("name", img.Name),
		zap.String("source_type", img.ContentType),
		zap.Int64("size", obj.Size),
		zap.Int("width", obj.Width),
		zap.Int("height", obj.Height),
	)
	return obj, nil
}

func (s *Service) save(ctx context.Context, img Image) (*entity.StoredObject, error) {
	if img.Path == "" {
		return nil, errors.New("image path is required")
	}

	now := s.now().UTC()
	key := entity.NewObjectKey(now, s.newID())

	data, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	out, err := s.transcoder.Transcode(data)
	if err != nil {
		return nil, fmt.Errorf("processing image: %w", err)
	}

	size := int64(len(out.Data))
	err = s.store.Upload(ctx, storage.UploadInput{
		Key:          key,
		Body:         bytes.NewReader(out.Data),
		ContentType:  entity.WebPMimeType,
		CacheControl: CacheControl,
		Size:         size,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to storage: %w", err)
	}
	metrics.UploadBytes.Observe(float64(size))

	return entity.NewStoredObject(s.publicDomain, key, size, out.Width, out.Height, now), nil
}

// Open returns the stored object for streaming. Callers must close Body.
func (s *Service) Open(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.store.Download(ctx, key)
	switch {
	case err == nil:
		metrics.ObserveOperation(opServe, metrics.StatusOK)
	case errors.Is(err, domain.ErrObjectNotFound):
		metrics.ObserveOperation(opServe, metrics.StatusNotFound)
	default:
		metrics.ObserveOperation(opServe, metrics.StatusError)
	}
	return obj, err
}

// Read returns the raw object body, or nil on any failure including a
// missing key. Use Exists to tell the two apart.
func (s *Service) Read(ctx context.Context, key string) io.ReadCloser {
	obj, err := s.store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			metrics.ObserveOperation(opRead, metrics.StatusNotFound)
			s.logger.Debug("read of missing object", zap.String("key", key))
		} else {
			metrics.ObserveOperation(opRead, metrics.StatusError)
			s.logger.Warn("read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	metrics.ObserveOperation(opRead, metrics.StatusOK)
	return obj.Body
}

// Remove deletes key and keeps the store's error, so callers can tell
// domain.ErrObjectNotFound from a transport failure.
func (s *Service) Remove(ctx context.Context, key string) error {
	err := s.store.Delete(ctx, key)
	switch {
	case err == nil:
		metrics.ObserveOperation(opDelete, metrics.StatusOK)
	case errors.Is(err, domain.ErrObjectNotFound):
		metrics.ObserveOperation(opDelete, metrics.StatusNotFound)
	default:
		metrics.ObserveOperation(opDelete, metrics.StatusError)
	}
	return err
}

// Delete reports success as a boolean. Every failure, not-found included,
// is false; the host interface has no channel for anything richer.
func (s *Service) Delete(ctx context.Context, key string) bool {
	if err := s.Remove(ctx, key); err != nil {
		s.logger.Warn("delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) PublicURL(key string) string {
	return entity.PublicURL(s.publicDomain, key)
}
