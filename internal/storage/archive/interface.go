package archive

import "context"

// Storage is the backend a report archive writes through. Keys are
// slash-separated relative paths; backends map them onto their own
// namespace.
type Storage interface {
	// Put stores a report blob under key, overwriting any previous blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the blob stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns every key under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the blob under key.
	Delete(ctx context.Context, key string) error
}
