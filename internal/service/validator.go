package service

import (
	"fmt"

	"github.com/gharseva/gharseva-api/internal/domain"
)

const (
	// MaxImageBytes is the per-file upload ceiling (5 MiB)
	MaxImageBytes = 5 * 1024 * 1024
	// MaxBatchFiles caps one portfolio upload batch
	MaxBatchFiles = 10
)

// allowedImageTypes is the closed MIME whitelist for uploads
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// UploadValidator enforces type and size limits on staged uploads. It runs
// entirely in memory, before any call to the content repository, so a
// rejected batch has no partial network side effects.
type UploadValidator struct {
	maxBytes int64
	maxFiles int
}

// NewUploadValidator creates a validator with the default limits
func NewUploadValidator() *UploadValidator {
	return &UploadValidator{
		maxBytes: MaxImageBytes,
		maxFiles: MaxBatchFiles,
	}
}

// Validate checks a single staged file
func (v *UploadValidator) Validate(file domain.UploadFile) error {
	if !allowedImageTypes[file.ContentType] {
		return domain.NewValidationError("invalid image type, only JPEG, PNG and WebP are allowed")
	}
	if file.Size() > v.maxBytes {
		return domain.NewValidationError(fmt.Sprintf("image size too large, maximum is %dMB", v.maxBytes/(1024*1024)))
	}
	return nil
}

// ValidateBatch checks the batch size then every file, reporting the index
// of the first offender
func (v *UploadValidator) ValidateBatch(files []domain.UploadFile) error {
	if len(files) > v.maxFiles {
		return domain.NewValidationError(fmt.Sprintf("too many images, maximum %d allowed", v.maxFiles))
	}
	for i, file := range files {
		if err := v.Validate(file); err != nil {
			ve := err.(*domain.ValidationError)
			return &domain.ValidationError{Index: i, Reason: ve.Reason}
		}
	}
	return nil
}
