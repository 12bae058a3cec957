package memocache

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"time"
)

// Func is a computation bound to a cache, a master key and fixed options.
// Its key for a call is (master, (positional...), ((name, value)...)).
type Func[V any] struct {
	c      *Cache[V]
	fn     ComputeFunc[V]
	master Key
	opts   []Option
}

// Decorator binds a computation using options captured by Configure.
type Decorator[V any] func(fn ComputeFunc[V]) *Func[V]

// Wrap binds fn with opts. Without WithKey the master key is fn's fully
// qualified Go name. Wrap panics if fn is nil.
func (c *Cache[V]) Wrap(fn ComputeFunc[V], opts ...Option) *Func[V] {
	if fn == nil {
		panic("memocache: Wrap of nil computation")
	}
	opts = append([]Option(nil), opts...)
	master := collect(opts).master
	if len(master) == 0 {
		master = Key{funcName(fn)}
	}
	return &Func[V]{c: c, fn: fn, master: master, opts: opts}
}

// Configure captures opts for several computations, e.g.
//
//	short := c.Configure(memocache.WithRegion("short"))
//	a, b := short(fa), short(fb)
func (c *Cache[V]) Configure(opts ...Option) Decorator[V] {
	opts = append([]Option(nil), opts...)
	return func(fn ComputeFunc[V]) *Func[V] { return c.Wrap(fn, opts...) }
}

func funcName(fn any) string {
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("%T", fn)
}

// Call invokes the computation with positional arguments only.
func (f *Func[V]) Call(ctx context.Context, positional ...any) (V, error) {
	return f.CallArgs(ctx, Args{Positional: positional})
}

func (f *Func[V]) CallArgs(ctx context.Context, a Args) (V, error) {
	return f.c.Get(ctx, f.Key(a), f.fn, a, f.opts...)
}

// Key returns the cache key for a call with a, before any namespace prefix.
func (f *Func[V]) Key(a Args) Key {
	pos, named := a.key()
	return Key{f.master, pos, named}
}

func (f *Func[V]) MasterKey() Key { return f.master }

// Delete drops the memoized result of the call with a.
func (f *Func[V]) Delete(ctx context.Context, a Args) error {
	return f.c.Delete(ctx, f.Key(a), f.opts...)
}

func (f *Func[V]) Expire(ctx context.Context, maxAge time.Duration, a Args) error {
	return f.c.Expire(ctx, f.Key(a), maxAge, f.opts...)
}

func (f *Func[V]) ExpireAt(ctx context.Context, t time.Time, a Args) error {
	return f.c.ExpireAt(ctx, f.Key(a), t, f.opts...)
}

func (f *Func[V]) TTL(ctx context.Context, a Args) (time.Duration, error) {
	return f.c.TTL(ctx, f.Key(a), f.opts...)
}

// Clear empties the store this computation resolves to, which may hold
// other entries too.
func (f *Func[V]) Clear(ctx context.Context) error {
	return f.c.Clear(ctx, f.opts...)
}

func (f *Func[V]) String() string {
	return fmt.Sprintf("memocache.Func%s", f.master)
}
