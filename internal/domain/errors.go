package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound              = errors.New("record not found")
	ErrForbidden             = errors.New("access forbidden: you don't own this resource")
	ErrPortfolioItemNotFound = errors.New("portfolio image not found")
	ErrConcurrencyConflict   = errors.New("content hash mismatch: object was modified concurrently")
	ErrUploadFailed          = errors.New("failed to upload to content repository")
	ErrDeleteFailed          = errors.New("failed to delete from content repository")
	ErrInvalidLocation       = errors.New("invalid coordinates")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailTaken            = errors.New("account with this email or phone already exists")
	ErrNoAsset               = errors.New("no image set for this field")
)

// ValidationError reports a rejected upload before any network call is made.
// Index is -1 for single-file validation, otherwise the position of the
// offending file within the batch.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return e.Reason
	}
	return fmt.Sprintf("image %d: %s", e.Index+1, e.Reason)
}

// NewValidationError creates a validation error for a single file
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Index: -1, Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
