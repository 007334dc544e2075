package storage

import (
	"context"
	"io"
	"time"
)

// Package storage uploads repository snapshots to S3-compatible object storage.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; -1 lets the client chunk.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes an uploaded object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Archiver stores immutable copies of the durable document.
type Archiver interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
}
