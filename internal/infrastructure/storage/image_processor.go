package storage

import (
	"bytes"
	"errors"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/domain"
	"github.com/marcos-nsantos/media-storage-adapter/internal/domain/entity"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/config"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/metrics"
)

const (
	DefaultMaxWidth = 1280
	DefaultQuality  = 80
)

// WebPTranscoder caps the width of an image and re-encodes it as lossy WebP.
// It holds no mutable state, so one instance serves concurrent saves.
type WebPTranscoder struct {
	maxWidth int
	quality  int
}

var _ storage.ImageTranscoder = (*WebPTranscoder)(nil)

func NewWebPTranscoder(cfg config.ImageConfig) *WebPTranscoder {
	t := &WebPTranscoder{
		maxWidth: cfg.MaxWidth,
		quality:  cfg.Quality,
	}
	if t.maxWidth <= 0 {
		t.maxWidth = DefaultMaxWidth
	}
	if t.quality <= 0 || t.quality > 100 {
		t.quality = DefaultQuality
	}
	return t
}

func (t *WebPTranscoder) MaxWidth() int { return t.maxWidth }

func (t *WebPTranscoder) Quality() int { return t.quality }

func (t *WebPTranscoder) Transcode(data []byte) (*storage.TranscodedImage, error) {
	start := time.Now()
	defer func() {
		metrics.TranscodeDuration.Observe(time.Since(start).Seconds())
	}()

	if len(data) == 0 {
		return nil, &domain.TranscodeError{Op: "decode", Err: errors.New("empty input")}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &domain.TranscodeError{Op: "decode", Err: err}
	}

	// Height 0 keeps the aspect ratio. Narrower images are never upscaled.
	if img.Bounds().Dx() > t.maxWidth {
		img = imaging.Resize(img, t.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: t.quality}); err != nil {
		return nil, &domain.TranscodeError{Op: "encode", Err: err}
	}

	bounds := img.Bounds()
	return &storage.TranscodedImage{
		Data:        buf.Bytes(),
		ContentType: entity.WebPMimeType,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}
