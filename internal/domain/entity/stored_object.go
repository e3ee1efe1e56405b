package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UploadPrefix  = "content/uploads"
	WebPExtension = ".webp"
	WebPMimeType  = "image/webp"
)

// StoredObject describes an upload after it has been written to the object store.
// URL is derived from the public domain and never persisted on its own.
type StoredObject struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
	Width       int
	Height      int
	CreatedAt   time.Time
}

func NewStoredObject(publicDomain, key string, size int64, width, height int, createdAt time.Time) *StoredObject {
	return &StoredObject{
		Key:         key,
		URL:         PublicURL(publicDomain, key),
		ContentType: WebPMimeType,
		Size:        size,
		Width:       width,
		Height:      height,
		CreatedAt:   createdAt,
	}
}

// NewObjectKey builds content/uploads/YYYY/MM/DD/<id>.webp from the UTC date of t.
func NewObjectKey(t time.Time, id uuid.UUID) string {
	t = t.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", UploadPrefix, t.Year(), int(t.Month()), t.Day(), id.String(), WebPExtension)
}

func PublicURL(publicDomain, key string) string {
	return strings.TrimRight(publicDomain, "/") + "/" + strings.TrimLeft(key, "/")
}
