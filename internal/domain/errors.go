package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrTranscode      = errors.New("transcode failed")
	ErrTransport      = errors.New("object store request failed")
	ErrConfiguration  = errors.New("invalid configuration")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTokenInvalid   = errors.New("token invalid")
)

// TranscodeError reports an image that could not be decoded or re-encoded.
type TranscodeError struct {
	Op  string
	Err error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode %s: %v", e.Op, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

func (e *TranscodeError) Is(target error) bool {
	return target == ErrTranscode
}

// TransportError wraps any object store failure other than a missing key:
// network, auth and unknown service errors all end up here.
type TransportError struct {
	Op  string
	Key string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return ErrConfiguration.Error()
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(parts, "; "))
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// HasProblems reports whether any field was recorded as missing or invalid.
func (e *ConfigurationError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}
