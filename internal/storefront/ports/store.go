package ports

import "context"

// StateStore is the device-local record store backing the order queue, the
// product cache, and the cooldown marker. Records are small JSON blobs read
// and rewritten wholesale.
type StateStore interface {
	// Get returns the stored value for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
