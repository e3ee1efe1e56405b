package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/media-storage-adapter/internal/domain"
)

const (
	RequestIDKey = "request_id"
	SubjectKey   = "subject"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		RequestID: GetRequestID(c),
	})
}

func ErrorWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(c),
	})
}

func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     "internal server error",
		Code:      "INTERNAL_ERROR",
		RequestID: GetRequestID(c),
	})
}

// HandleError renders err using the domain error taxonomy.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrObjectNotFound):
		ErrorWithCode(c, http.StatusNotFound, "NOT_FOUND", "object not found")
	case errors.Is(err, domain.ErrTranscode):
		ErrorWithCode(c, http.StatusUnprocessableEntity, "INVALID_IMAGE", "image could not be processed")
	case errors.Is(err, domain.ErrTransport):
		ErrorWithCode(c, http.StatusBadGateway, "STORAGE_UNAVAILABLE", "object store request failed")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenInvalid):
		ErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	default:
		InternalError(c)
	}
}

func GetSubject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
