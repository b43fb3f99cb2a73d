// Package storage provides object storage implementations for file operations.
package storage

import (
	"context"
	"time"
)

// UploadResult describes a stored object after a successful upload.
type UploadResult struct {
	SHA256 string
	Size   int64
}

// ObjectStorage abstracts the object store holding receipt PDFs and expense
// attachments. Uploads overwrite an existing object at the same path.
type ObjectStorage interface {
	// Upload stores data at bucket/path and returns its digest and size.
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (UploadResult, error)
	// SignObject returns a time-limited URL granting read access to the object.
	SignObject(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error)
}
