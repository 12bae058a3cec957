package memocache

import (
	"time"

	"github.com/unkn0wn-root/memocache/store"
)

// Region is a named set of defaults. A region without a Store uses the
// default region's store; every other field applies as written, so a zero
// MaxAge or Namespace turns that setting off.
type Region[V any] struct {
	Store     store.Store[V]
	Namespace string        // "" => no namespace
	MaxAge    time.Duration // 0 => no TTL
	Expiry    time.Time     // base for MaxAge; absolute expiry when MaxAge is 0
}

// Option overrides one setting for a single call or a wrapped computation.
// Explicit overrides win over region defaults, including explicit zeros.
type Option func(*overrides)

type overrides struct {
	region    *string
	store     any
	namespace *string
	maxAge    *time.Duration
	expiry    *time.Time
	master    Key
}

func WithRegion(name string) Option {
	return func(o *overrides) { o.region = &name }
}

// WithStore is only honoured when s holds values of the cache's type;
// a mismatch fails the call with ErrStoreType.
func WithStore[V any](s store.Store[V]) Option {
	return func(o *overrides) {
		if s != nil {
			o.store = s
		}
	}
}

// WithNamespace prefixes keys as (namespace, key). "" disables the prefix.
func WithNamespace(ns string) Option {
	return func(o *overrides) { o.namespace = &ns }
}

// WithMaxAge sets the TTL. 0 disables it.
func WithMaxAge(d time.Duration) Option {
	return func(o *overrides) { o.maxAge = &d }
}

// WithExpiry sets the base MaxAge is added to, or the absolute expiry when
// no MaxAge applies. The zero time means "now" and "never" respectively.
func WithExpiry(t time.Time) Option {
	return func(o *overrides) { o.expiry = &t }
}

// WithKey sets the master key of a wrapped computation. Calls that take an
// explicit key ignore it.
func WithKey(fragments ...any) Option {
	k := Key(append([]any(nil), fragments...))
	return func(o *overrides) { o.master = k }
}

func collect(opts []Option) overrides {
	var o overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// settings are the effective options of one call.
type settings[V any] struct {
	region    string
	store     store.Store[V]
	namespace string
	maxAge    time.Duration
	expiry    time.Time
}

// merge layers o over r. Only the store falls back to def.
func merge[V any](name string, def, r Region[V], o overrides) (settings[V], error) {
	if name != DefaultRegion {
		r.Store = coalesce[store.Store[V]](r.Store, def.Store)
	}

	s := settings[V]{
		region:    name,
		store:     r.Store,
		namespace: r.Namespace,
		maxAge:    r.MaxAge,
		expiry:    r.Expiry,
	}
	if o.store != nil {
		st, ok := o.store.(store.Store[V])
		if !ok {
			return settings[V]{}, ErrStoreType
		}
		s.store = st
	}
	if o.namespace != nil {
		s.namespace = *o.namespace
	}
	if o.maxAge != nil {
		s.maxAge = *o.maxAge
	}
	if o.expiry != nil {
		s.expiry = *o.expiry
	}
	if s.store == nil {
		return settings[V]{}, ErrNoStore
	}
	return s, nil
}

// storageKey applies the namespace prefix and encodes the result.
func (s settings[V]) storageKey(k Key) (string, error) {
	if s.namespace != "" {
		k = Key{s.namespace, k}
	}
	return k.Encode()
}

// expiryAt computes the expiry of an entry written at now.
func (s settings[V]) expiryAt(now time.Time) time.Time {
	if s.maxAge == 0 {
		return s.expiry
	}
	base := s.expiry
	if base.IsZero() {
		base = now
	}
	return base.Add(s.maxAge)
}
