// Package storage defines the key-value persistence interface and its
// implementations.
package storage

import "context"

// Storage is a namespaced key-value store holding opaque values. Writes to a
// single key are atomic.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	Close() error
}
