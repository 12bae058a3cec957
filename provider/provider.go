// Package provider defines the byte stores that store/encoded can sit on.
//
// memocache decides validity itself (lazy expiry against its own clock); the
// TTL passed to Set only lets a backend reclaim space early. A provider that
// drops an entry before its TTL is fine: the engine treats it as a miss.
package provider

import (
	"context"
	"time"

	"github.com/unkn0wn-root/memocache/store"
)

// ErrNotFound is store.ErrNotFound, so byte-layer misses pass straight through
// store/encoded.
var ErrNotFound = store.ErrNotFound

// Provider is a minimal byte store with TTLs.
// Must be safe for concurrent use and byte-for-byte transparent: Get returns
// exactly the []byte previously passed to Set for the same key.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. ttl <= 0 means no expiry. cost may be ignored.
	// ok=false reports a write rejected under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Returns ErrNotFound when the backend can tell the key was absent.
	Del(ctx context.Context, key string) error

	Close(ctx context.Context) error
}

// Clearer is implemented by providers that can drop every key they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
