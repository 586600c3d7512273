package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store and gateway layers. Handlers map these
// to HTTP statuses; nothing below the handler layer knows about HTTP.
var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicateSlug = errors.New("slug already exists")

	ErrInvalidFileType = errors.New("only image files are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrInvalidHost     = errors.New("url does not belong to the upload host")
	ErrUploadTimeout   = errors.New("upload timed out")
)

// ValidationError reports a missing or malformed field on a draft document.
// User-fixable; maps to a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProviderError wraps a failure from the upload storage provider. Not
// user-fixable; maps to a 500 and is logged server-side.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("upload provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
