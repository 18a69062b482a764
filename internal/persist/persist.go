// Package persist stores named, versioned JSON blobs. The layout store writes its whole
// state as a single blob; each backend here keeps blobs keyed by name so the layout blob
// never shares storage with other client preferences.
package persist

import (
	"context"
	"errors"
)

// DefaultLayoutsBlob is the name the dashboard layout state is stored under.
const DefaultLayoutsBlob = "dashboard-layouts"

var ErrBlobNotFound = errors.New("persist: blob not found")

// BlobStore is a durable name -> bytes mapping.
type BlobStore interface {
	// Load returns ErrBlobNotFound when nothing was saved under name.
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}
