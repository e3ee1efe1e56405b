package response

import (
	"time"

	"github.com/marcos-nsantos/media-storage-adapter/internal/domain/entity"
)

type StoredObjectResponse struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"created_at"`
}

func StoredObjectFromEntity(obj *entity.StoredObject) StoredObjectResponse {
	return StoredObjectResponse{
		Key:         obj.Key,
		URL:         obj.URL,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		Width:       obj.Width,
		Height:      obj.Height,
		CreatedAt:   obj.CreatedAt,
	}
}

type ExistsResponse struct {
	Key    string `json:"key"`
	Exists bool   `json:"exists"`
}

type DeleteResponse struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}
