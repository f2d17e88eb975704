// Package kv is the device-local key/value byte store that backs the journal
// mirror. Values are read and written whole; there is no partial update.
package kv

import "context"

// Store is a durable key/value byte store scoped to the device.
type Store interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Update reads the current value of key, passes it to fn and stores the
	// result, with no other writer able to interleave between the read and
	// the write. If fn returns an error nothing is written.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}
