package storage

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"

	"github.com/marcos-nsantos/media-storage-adapter/internal/domain"
)

func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}

	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}

	return false
}

func isMinioNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func classifyS3Error(op, key string, err error) error {
	if isS3NotFound(err) {
		return fmt.Errorf("%s %q: %w", op, key, domain.ErrObjectNotFound)
	}
	return &domain.TransportError{Op: op, Key: key, Err: err}
}

func classifyMinioError(op, key string, err error) error {
	if isMinioNotFound(err) {
		return fmt.Errorf("%s %q: %w", op, key, domain.ErrObjectNotFound)
	}
	return &domain.TransportError{Op: op, Key: key, Err: err}
}
