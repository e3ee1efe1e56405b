package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/media-storage-adapter/internal/domain"
	"github.com/marcos-nsantos/media-storage-adapter/internal/pkg/httputil"
	"github.com/marcos-nsantos/media-storage-adapter/internal/usecase/media"
)

const (
	KeyParam        = "key"
	fileField       = "file"
	notFoundMessage = "File not found"
)

type MediaHandler struct {
	mediaSvc      MediaService
	maxUploadSize int64
	logger        *zap.Logger
}

func NewMediaHandler(mediaSvc MediaService, maxUploadSize int64, logger *zap.Logger) *MediaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaHandler{
		mediaSvc:      mediaSvc,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Upload spools the multipart file to a temporary path, hands that path to
// the media service and removes it once the save finishes.
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		if c.Request.ContentLength > h.maxUploadSize {
			httputil.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds upload limit")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	file, header, err := c.Request.FormFile(fileField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds upload limit")
			return
		}
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_FILE", "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_TYPE", "only images are allowed")
		return
	}

	path, err := spool(file, header.Filename)
	if err != nil {
		_ = c.Error(fmt.Errorf("spooling upload: %w", err))
		c.Abort()
		return
	}
	defer os.Remove(path)

	obj, err := h.mediaSvc.Save(c.Request.Context(), media.Image{
		Path:        path,
		Name:        header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTranscode) {
			httputil.ErrorWithCode(c, http.StatusUnprocessableEntity, "INVALID_IMAGE", "image could not be processed")
			return
		}
		_ = c.Error(err)
		c.Abort()
		return
	}

	httputil.Created(c, response.StoredObjectFromEntity(obj))
}

func spool(file multipart.File, name string) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(name))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// Serve returns a handler that streams stored objects by key. A missing key
// gets a plain 404; any other failure is passed to the error middleware
// without writing a response.
func (h *MediaHandler) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := objectKey(c)

		obj, err := h.mediaSvc.Open(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, domain.ErrObjectNotFound) {
				c.String(http.StatusNotFound, notFoundMessage)
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}
		defer obj.Body.Close()

		header := c.Writer.Header()
		if obj.ContentType != "" {
			header.Set("Content-Type", obj.ContentType)
		}
		if obj.ContentLength > 0 {
			header.Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
		}
		if obj.CacheControl != "" {
			header.Set("Cache-Control", obj.CacheControl)
		}
		if obj.ETag != "" {
			header.Set("ETag", obj.ETag)
		}
		if !obj.LastModified.IsZero() {
			header.Set("Last-Modified", obj.LastModified.UTC().Format(http.TimeFormat))
		}

		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, obj.Body); err != nil {
			h.logger.Warn("streaming object interrupted",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

func (h *MediaHandler) Exists(c *gin.Context) {
	key := objectKey(c)
	if key == "" {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_KEY", "key is required")
		return
	}

	httputil.OK(c, response.ExistsResponse{
		Key:    key,
		Exists: h.mediaSvc.Exists(c.Request.Context(), key),
	})
}

func (h *MediaHandler) Delete(c *gin.Context) {
	key := objectKey(c)
	if key == "" {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_KEY", "key is required")
		return
	}

	httputil.OK(c, response.DeleteResponse{
		Key:     key,
		Deleted: h.mediaSvc.Delete(c.Request.Context(), key),
	})
}

// objectKey reads the catch-all route param and strips one leading slash.
func objectKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param(KeyParam), "/")
}
