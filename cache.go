package memocache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/unkn0wn-root/memocache/store"
)

// Get returns the valid entry under key, or runs compute with args, stores
// the result and returns it. Concurrent misses on one key share a single
// computation; it runs with the context of the caller that started it.
func (c *Cache[V]) Get(ctx context.Context, key Key, compute ComputeFunc[V], args Args, opts ...Option) (V, error) {
	var zero V
	s, err := c.resolve(opts)
	if err != nil {
		return zero, err
	}
	k, err := s.storageKey(key)
	if err != nil {
		return zero, err
	}

	if v, ok, err := c.lookup(ctx, s.store, k); err != nil || ok {
		return v, err
	}

	res, err, shared := c.flight.Do(flightKey(s.store, k), func() (any, error) {
		// a flight that finished while we were looking may have filled it
		if v, ok, err := c.lookup(ctx, s.store, k); err != nil || ok {
			return v, err
		}
		return c.fill(ctx, s, k, compute, args)
	})
	if shared {
		c.hooks.Shared(k)
	}
	if err != nil {
		return zero, err
	}
	v, _ := res.(V) // nil interface values come back as nil any
	return v, nil
}

// lookup returns a valid entry's value. Stale entries are removed and
// reported as a miss.
func (c *Cache[V]) lookup(ctx context.Context, st store.Store[V], k string) (V, bool, error) {
	var zero V
	e, ok, err := st.Get(ctx, k)
	if err != nil {
		c.hooks.StoreError("get", k, err)
		return zero, false, &KeyError{Op: "get", Key: k, Err: err}
	}
	if !ok {
		return zero, false, nil
	}
	if e.ValidAt(c.now()) {
		c.hooks.Hit(k)
		return e.Value, true, nil
	}
	c.dropStale(ctx, st, k)
	return zero, false, nil
}

func (c *Cache[V]) dropStale(ctx context.Context, st store.Store[V], k string) {
	c.hooks.Stale(k)
	if err := st.Del(ctx, k); err != nil && !errors.Is(err, store.ErrNotFound) {
		c.hooks.StoreError("del", k, err)
		c.log.Warn("stale entry removal failed", Fields{"key": k, "err": err})
		return
	}
	c.log.Debug("removed stale entry", Fields{"key": k})
}

// fill computes and stores. A failed write is logged and the value is
// still returned.
func (c *Cache[V]) fill(ctx context.Context, s settings[V], k string, compute ComputeFunc[V], args Args) (V, error) {
	c.hooks.Miss(k)
	v, err := compute(ctx, args)
	if err != nil {
		c.hooks.ComputeError(k, err)
		return v, err
	}

	e := store.Entry[V]{Value: v, Expiry: s.expiryAt(c.now())}
	if err := s.store.Set(ctx, k, e); err != nil {
		c.hooks.StoreError("set", k, err)
		c.log.Warn("store write failed", Fields{"key": k, "region": s.region, "err": err})
		return v, nil
	}
	c.log.Debug("cached computed value", Fields{"key": k, "region": s.region, "expiry": e.Expiry})
	return v, nil
}

// Delete removes key from the resolved store. A missing key is not an error.
func (c *Cache[V]) Delete(ctx context.Context, key Key, opts ...Option) error {
	s, err := c.resolve(opts)
	if err != nil {
		return err
	}
	k, err := s.storageKey(key)
	if err != nil {
		return err
	}
	if err := s.store.Del(ctx, k); err != nil && !errors.Is(err, store.ErrNotFound) {
		c.hooks.StoreError("del", k, err)
		return &KeyError{Op: "delete", Key: k, Err: err}
	}
	return nil
}

// ExpireAt re-stamps an existing entry with expiry t (the zero time means
// never). It fails with ErrNotFound when no entry exists, stale or not.
func (c *Cache[V]) ExpireAt(ctx context.Context, key Key, t time.Time, opts ...Option) error {
	s, err := c.resolve(opts)
	if err != nil {
		return err
	}
	k, err := s.storageKey(key)
	if err != nil {
		return err
	}
	e, ok, err := s.store.Get(ctx, k)
	if err != nil {
		c.hooks.StoreError("get", k, err)
		return &KeyError{Op: "expire", Key: k, Err: err}
	}
	if !ok {
		return &KeyError{Op: "expire", Key: k, Err: ErrNotFound}
	}
	e.Expiry = t
	if err := s.store.Set(ctx, k, e); err != nil {
		c.hooks.StoreError("set", k, err)
		return &KeyError{Op: "expire", Key: k, Err: err}
	}
	return nil
}

// Expire is ExpireAt(now + maxAge).
func (c *Cache[V]) Expire(ctx context.Context, key Key, maxAge time.Duration, opts ...Option) error {
	return c.ExpireAt(ctx, key, c.now().Add(maxAge), opts...)
}

// TTL returns the time left before key expires, or 0 for a stale entry,
// which is removed. Entries without expiry fail with ErrNoExpiry.
func (c *Cache[V]) TTL(ctx context.Context, key Key, opts ...Option) (time.Duration, error) {
	s, err := c.resolve(opts)
	if err != nil {
		return 0, err
	}
	k, err := s.storageKey(key)
	if err != nil {
		return 0, err
	}
	e, ok, err := s.store.Get(ctx, k)
	if err != nil {
		c.hooks.StoreError("get", k, err)
		return 0, &KeyError{Op: "ttl", Key: k, Err: err}
	}
	if !ok {
		return 0, &KeyError{Op: "ttl", Key: k, Err: ErrNotFound}
	}
	if !e.HasExpiry() {
		return 0, &KeyError{Op: "ttl", Key: k, Err: ErrNoExpiry}
	}
	left := e.Expiry.Sub(c.now())
	if left <= 0 {
		c.dropStale(ctx, s.store, k)
		return 0, nil
	}
	return left, nil
}

// Clear empties the resolved store. The store must implement store.Clearer.
func (c *Cache[V]) Clear(ctx context.Context, opts ...Option) error {
	s, err := c.resolve(opts)
	if err != nil {
		return err
	}
	cl, ok := s.store.(store.Clearer)
	if !ok {
		return ErrClearUnsupported
	}
	if err := cl.Clear(ctx); err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			return ErrClearUnsupported
		}
		c.hooks.StoreError("clear", "", err)
		return fmt.Errorf("memocache: clear region %q: %w", s.region, err)
	}
	c.log.Info("cleared store", Fields{"region": s.region})
	return nil
}

// flightKey scopes single-flight keys by store, so equal keys in different
// stores never share a computation. Stores that are not reference types are
// scoped by type only.
func flightKey(st any, k string) string {
	v := reflect.ValueOf(st)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.UnsafePointer:
		return fmt.Sprintf("%T@%x|%s", st, v.Pointer(), k)
	default:
		return fmt.Sprintf("%T|%s", st, k)
	}
}
