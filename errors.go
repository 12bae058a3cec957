package memocache

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStore: no store left after merging options (configuration error).
	ErrNoStore = errors.New("memocache: store is required")

	// ErrStoreType: WithStore was given a store of another value type.
	ErrStoreType = errors.New("memocache: store value type does not match cache")

	ErrUnknownRegion = errors.New("memocache: unknown region")
	ErrDefaultRegion = errors.New("memocache: default region cannot be deleted")
	ErrNotFound      = errors.New("memocache: key not found")

	// ErrNoExpiry is returned by TTL for entries that never expire.
	ErrNoExpiry   = errors.New("memocache: entry has no expiry")
	ErrInvalidKey = errors.New("memocache: invalid key")

	// ErrClearUnsupported also matches errors.ErrUnsupported.
	ErrClearUnsupported = fmt.Errorf("memocache: store cannot be cleared: %w", errors.ErrUnsupported)
)

// RegionError reports a reference to a region that was never defined.
type RegionError struct {
	Name string
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("memocache: unknown region %q", e.Name)
}

func (e *RegionError) Unwrap() error { return ErrUnknownRegion }

// KeyError reports a failed key operation. Key is the storage key.
type KeyError struct {
	Op  string
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("memocache: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }
