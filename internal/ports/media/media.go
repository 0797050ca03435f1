package media

import "context"

// ImageStore persists uploaded post images under an object key.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	URL(key string) string
}
