package store

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrStoreNotFound is returned when a named cache store does not exist.
var ErrStoreNotFound = errors.New("cache store not found")

// CachedResponse is a captured HTTP response held in a cache store.
type CachedResponse struct {
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"stored_at"`
}

// CacheStorage manages the set of named cache stores. Implementations are
// safe for concurrent use.
type CacheStorage interface {
	// Open returns the named store, creating it if it does not exist.
	Open(ctx context.Context, name string) (Cache, error)

	// Has reports whether the named store exists.
	Has(ctx context.Context, name string) (bool, error)

	// Names lists every store in creation order.
	Names(ctx context.Context) ([]string, error)

	// Delete removes the named store and all of its entries. It reports
	// whether the store existed.
	Delete(ctx context.Context, name string) (bool, error)

	// Close releases the backend.
	Close() error
}

// Cache is a single named store of captured responses keyed by URL.
type Cache interface {
	// Name returns the store name.
	Name() string

	// Match returns the entry for key, or nil if there is none.
	Match(ctx context.Context, key string) (*CachedResponse, error)

	// Put writes or replaces the entry for key.
	Put(ctx context.Context, key string, resp *CachedResponse) error

	// PutAll writes every entry or none of them.
	PutAll(ctx context.Context, entries map[string]*CachedResponse) error

	// Keys lists the stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
}
