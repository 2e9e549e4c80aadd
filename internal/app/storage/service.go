/*
Package storage provides the file storage service for image uploads: message
images and profile photos. Clients upload directly to an S3-compatible bucket
through time-limited presigned URLs issued here; the server never relays file
bytes.
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the credentials and bucket the storage service targets.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService issues presigned URLs and removes stored objects.
type StorageService interface {
	// PresignUpload returns a URL the client can PUT the file to. The key,
	// MIME type, and size are fixed into the signature, so the client cannot
	// upload something other than what was validated.
	PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// PresignDownload returns a URL the client can GET the object from.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// NewStorageService builds the storage backend for the given configuration.
// S3-compatible object storage is the only implementation.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	return newS3Client(cfg)
}
