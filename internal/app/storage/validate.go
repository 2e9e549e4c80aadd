package storage

import (
	"path/filepath"
	"strings"
	"time"

	"dmchat/internal/pkg/errs"
)

const (
	// MaxUploadSizeMB is the maximum allowed file size in megabytes.
	MaxUploadSizeMB = 5

	// MaxUploadSize is the maximum allowed file size in bytes.
	MaxUploadSize = MaxUploadSizeMB * 1024 * 1024

	// PresignedURLDuration is the fixed duration for which an upload URL is valid.
	PresignedURLDuration = 5 * time.Minute
)

// AllowedMIMETypes defines the set of permitted MIME types for image uploads.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidateFileSize checks if the provided file size is within acceptable limits.
func ValidateFileSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if fileSize > MaxUploadSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	return nil
}

// ValidateFileType checks if the provided file name and MIME type are an
// allowed image type, and that extension and MIME type agree.
func ValidateFileType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)

	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) < 2 {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	expectedMIME, ok := ExtToMIME[ext]
	if !ok {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	if expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	return nil
}
