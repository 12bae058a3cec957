// Package store defines the backing container contract used by memocache.
//
// Keys handed to a Store are the canonical string encoding of a composite
// memocache.Key. Stores never interpret them.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound may be returned by Del when the key is absent.
// Callers are free to ignore it.
var ErrNotFound = errors.New("store: key not found")

// Entry is a cached value paired with its expiry.
// A zero Expiry means the entry never expires.
type Entry[V any] struct {
	Value  V
	Expiry time.Time
}

// HasExpiry reports whether e carries an expiry timestamp.
func (e Entry[V]) HasExpiry() bool { return !e.Expiry.IsZero() }

// ValidAt reports whether e is still valid at t.
func (e Entry[V]) ValidAt(t time.Time) bool {
	return e.Expiry.IsZero() || e.Expiry.After(t)
}

// Store is a point-access key/value container.
// Must be safe for concurrent use. The engine requires no ordering or iteration.
type Store[V any] interface {
	// Get returns (entry, true, nil) on hit; (zero, false, nil) when absent.
	Get(ctx context.Context, key string) (Entry[V], bool, error)

	// Set stores e under key, replacing any previous entry.
	Set(ctx context.Context, key string, e Entry[V]) error

	// Del removes key. Absence may be reported as ErrNotFound.
	Del(ctx context.Context, key string) error
}

// Clearer is implemented by stores that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
