package storage

import (
	"context"
	"io"
)

// Service stores objects in remote object storage.
type Service interface {
	// PutObject uploads body under key and returns the object's URL.
	PutObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	// DeletePrefix removes every object whose key starts with prefix.
	DeletePrefix(ctx context.Context, bucket, prefix string) error
}
