package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and removing binary objects.
// Save returns the public URL under which the stored object is reachable;
// one object is stored per document version, named by the caller to avoid
// collisions.
type ObjectStore interface {
	Save(ctx context.Context, name string, r io.Reader) (url string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, names []string) error
}
