// Package storage reads layout documents from S3-compatible object storage.
package storage

import (
	"context"
	"io"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// StorageService defines the object storage operations the layout source needs.
type StorageService interface {
	// BucketExists reports whether bucket is reachable and present.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// ListObjects lists every object under prefix, recursively.
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)

	// DownloadFile downloads a file directly from storage.
	// The caller is responsible for closing the returned io.ReadCloser.
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}
