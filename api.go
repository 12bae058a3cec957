package memocache

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/memocache/store"
)

// ComputeFunc produces the value to cache. Errors are returned to the caller
// unchanged and never cached.
type ComputeFunc[V any] func(ctx context.Context, args Args) (V, error)

// Config seeds the "default" region and the ambient settings of a Cache.
// Only Store is required.
type Config[V any] struct {
	// default region
	Store     store.Store[V]
	Namespace string
	MaxAge    time.Duration // 0 => entries never expire
	Expiry    time.Time

	Logger Logger           // nil => NopLogger
	Hooks  Hooks            // nil => NopHooks
	Now    func() time.Time // nil => time.Now
}

// Cache memoizes computations whose results are values of type V.
// Safe for concurrent use.
type Cache[V any] struct {
	mu      sync.RWMutex
	regions map[string]Region[V]

	log   Logger
	hooks Hooks
	now   func() time.Time

	flight singleflight.Group
}

func New[V any](cfg Config[V]) (*Cache[V], error) {
	if cfg.Store == nil {
		return nil, ErrNoStore
	}
	c := &Cache[V]{
		regions: map[string]Region[V]{
			DefaultRegion: {
				Store:     cfg.Store,
				Namespace: cfg.Namespace,
				MaxAge:    cfg.MaxAge,
				Expiry:    cfg.Expiry,
			},
		},
	}
	c.log = coalesce[Logger](cfg.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](cfg.Hooks, NopHooks{})
	c.now = nowOr(cfg.Now)
	return c, nil
}

// SetRegion adds or replaces a region. Replacing "default" is allowed; a
// default region without a store makes later calls fail with ErrNoStore
// unless they pass WithStore.
func (c *Cache[V]) SetRegion(name string, r Region[V]) {
	c.mu.Lock()
	c.regions[name] = r
	c.mu.Unlock()
}

// Region returns the named region as configured (without default fallbacks).
func (c *Cache[V]) Region(name string) (Region[V], bool) {
	c.mu.RLock()
	r, ok := c.regions[name]
	c.mu.RUnlock()
	return r, ok
}

// DeleteRegion removes a region. The default region cannot be removed.
func (c *Cache[V]) DeleteRegion(name string) error {
	if name == DefaultRegion {
		return ErrDefaultRegion
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.regions[name]; !ok {
		return &RegionError{Name: name}
	}
	delete(c.regions, name)
	return nil
}

func (c *Cache[V]) RegionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.regions))
	for n := range c.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// resolve merges opts over the selected region.
func (c *Cache[V]) resolve(opts []Option) (settings[V], error) {
	o := collect(opts)
	name := DefaultRegion
	if o.region != nil {
		name = *o.region
	}

	c.mu.RLock()
	r, ok := c.regions[name]
	def := c.regions[DefaultRegion]
	c.mu.RUnlock()
	if !ok {
		return settings[V]{}, &RegionError{Name: name}
	}
	return merge(name, def, r, o)
}
