// Package objectstore persists generated report files and issues expiring
// signed download links for them.
package objectstore

import (
	"context"
	"io"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Store is a flat keyed blob store.
type Store interface {
	Put(ctx context.Context, key string, contentType string, body []byte) (*ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
