package handler

import (
	"context"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/domain/entity"
	"github.com/marcos-nsantos/media-storage-adapter/internal/usecase/media"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type MediaService interface {
	Save(ctx context.Context, img media.Image) (*entity.StoredObject, error)
	Open(ctx context.Context, key string) (*storage.Object, error)
	Exists(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string) bool
}
