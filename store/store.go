package store

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	ErrRead           = errors.New("store: read failed")
	ErrWrite          = errors.New("store: write failed")
	ErrDelete         = errors.New("store: delete failed")
	ErrClosed         = errors.New("store: store is not open")
	ErrUnknownBackend = errors.New("store: unknown backend")
)

// Store persists record bytes by key.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Get: a missing key is (nil, false, nil), never an error.
// - Put: overwrites; the stored value is replaced as a whole or not at all.
//   Failures wrap ErrWrite.
// - Delete: idempotent, no error on a missing key.
// - Lifecycle: operations before Open or after Close fail with ErrClosed.
type Store interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Open prepares the store for use.
	Open(ctx context.Context) error

	// Get returns the last value written for key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes any value stored under key.
	Delete(ctx context.Context, key string) error

	// Close releases the store's resources.
	Close() error
}
