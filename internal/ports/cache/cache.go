package cache

import "context"

// ListingCache holds rendered index pages for a fixed TTL. Entries are
// keyed by the requested page value so different pages never share a
// payload.
type ListingCache interface {
	Get(ctx context.Context, page string) ([]byte, bool, error)
	Put(ctx context.Context, page string, payload []byte) error
	Invalidate(ctx context.Context) error
}
