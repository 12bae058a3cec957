package memocache

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func add(_ context.Context, a Args) (string, error) {
	return strings.Repeat("+", len(a.Positional)+len(a.Named)), nil
}

func TestWrapDerivesMasterKeyFromFuncName(t *testing.T) {
	c, _, _ := newTestCache(t, nil)
	f := c.Wrap(add)
	mk := f.MasterKey()
	if len(mk) != 1 || mk[0] != "github.com/unkn0wn-root/memocache.add" {
		t.Fatalf("master key = %v", mk)
	}
	if !strings.Contains(f.String(), "memocache.add") {
		t.Fatalf("String() = %s", f.String())
	}
}

func TestWrapWithExplicitKey(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newTestCache(t, nil)
	f := c.Wrap(add, WithKey("key1", "key2"))

	if mk := f.MasterKey(); len(mk) != 2 || mk[0] != "key1" || mk[1] != "key2" {
		t.Fatalf("master key = %v", mk)
	}
	if _, err := f.Call(ctx); err != nil {
		t.Fatal(err)
	}
	want := storageKey(t, Key{Key{"key1", "key2"}, Key{}, Key{}})
	if _, ok, _ := st.Get(ctx, want); !ok {
		t.Fatalf("expected entry %s, have %v", want, st.Keys())
	}
}

func TestKeywordOrderInvariance(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newTestCache(t, nil)

	var n int32
	f := c.Wrap(func(_ context.Context, a Args) (string, error) {
		atomic.AddInt32(&n, 1)
		return "v", nil
	})

	ab := Args{Named: map[string]any{"a": 1, "b": 2}}
	ba := Args{Named: map[string]any{"b": 2, "a": 1}}
	if f.Key(ab).String() != f.Key(ba).String() {
		t.Fatalf("keys differ: %s vs %s", f.Key(ab), f.Key(ba))
	}
	_, _ = f.CallArgs(ctx, ab)
	_, _ = f.CallArgs(ctx, ba)
	if n != 1 || st.Len() != 1 {
		t.Fatalf("calls=%d entries=%v", n, st.Keys())
	}

	named := f.Key(ab)[2].(Key)
	if first := named[0].(Key); first[0] != "a" {
		t.Fatalf("named args not sorted: %v", named)
	}
}

func TestArgumentsSeparateEntries(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t, nil)

	var n int32
	f := c.Wrap(func(_ context.Context, a Args) (string, error) {
		atomic.AddInt32(&n, 1)
		return "v", nil
	})
	_, _ = f.Call(ctx, 1, 2)
	_, _ = f.Call(ctx, 1, 2)
	_, _ = f.Call(ctx, 2, 1)
	_, _ = f.CallArgs(ctx, Args{Positional: []any{1}, Named: map[string]any{"b": 2}})
	if n != 3 {
		t.Fatalf("calls=%d, want 3", n)
	}

	if f.Key(Args{Positional: []any{"1"}}).String() == f.Key(Args{Positional: []any{1}}).String() {
		t.Fatalf("string and int arguments collided")
	}
}

func TestDistinctFunctionsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t, nil)

	one := c.Wrap(func(context.Context, Args) (string, error) { return "one", nil })
	two := c.Wrap(func(context.Context, Args) (string, error) { return "two", nil })
	a, _ := one.Call(ctx, 1)
	b, _ := two.Call(ctx, 1)
	if a != "one" || b != "two" {
		t.Fatalf("one=%q two=%q", a, b)
	}
}

func TestWrappedOptionsApplyToEveryOperation(t *testing.T) {
	ctx := context.Background()
	c, st, clk := newTestCache(t, nil)

	var n int32
	f := c.Wrap(func(context.Context, Args) (string, error) {
		atomic.AddInt32(&n, 1)
		return "v", nil
	}, WithNamespace("ns"), WithMaxAge(time.Minute))

	args := Args{Positional: []any{"x"}}
	if _, err := f.CallArgs(ctx, args); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := st.Get(ctx, storageKey(t, Key{"ns", f.Key(args)})); !ok {
		t.Fatalf("namespace not applied: %v", st.Keys())
	}
	if ttl, err := f.TTL(ctx, args); err != nil || ttl != time.Minute {
		t.Fatalf("TTL=%v err=%v", ttl, err)
	}
	if err := f.Expire(ctx, 10*time.Second, args); err != nil {
		t.Fatal(err)
	}
	if ttl, _ := f.TTL(ctx, args); ttl != 10*time.Second {
		t.Fatalf("TTL after Expire = %v", ttl)
	}
	if err := f.ExpireAt(ctx, clk.Now().Add(3*time.Second), args); err != nil {
		t.Fatal(err)
	}
	if ttl, _ := f.TTL(ctx, args); ttl != 3*time.Second {
		t.Fatalf("TTL after ExpireAt = %v", ttl)
	}
	if err := f.Delete(ctx, args); err != nil {
		t.Fatal(err)
	}
	if st.Len() != 0 {
		t.Fatalf("Delete left %v", st.Keys())
	}
	if _, err := f.TTL(ctx, args); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TTL after Delete: %v", err)
	}
	if err := f.Expire(ctx, time.Second, args); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expire after Delete: %v", err)
	}
	if err := f.Delete(ctx, args); err != nil {
		t.Fatalf("Delete is idempotent: %v", err)
	}
}

func TestConfigure(t *testing.T) {
	ctx := context.Background()
	c, st, clk := newTestCache(t, nil)
	c.SetRegion("short", Region[string]{MaxAge: 5 * time.Second})

	short := c.Configure(WithRegion("short"), WithKey("short-key"))
	f := short(add)
	if mk := f.MasterKey(); len(mk) != 1 || mk[0] != "short-key" {
		t.Fatalf("master key = %v", mk)
	}
	if _, err := f.Call(ctx); err != nil {
		t.Fatal(err)
	}
	e, ok, _ := st.Get(ctx, storageKey(t, f.Key(Args{})))
	if !ok || !e.Expiry.Equal(clk.Now().Add(5*time.Second)) {
		t.Fatalf("region not applied: ok=%v e=%+v", ok, e)
	}

	bad := c.Configure(WithRegion("missing"))(add)
	if _, err := bad.Call(ctx); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("want ErrUnknownRegion, got %v", err)
	}
}

func TestWrapClear(t *testing.T) {
	ctx := context.Background()
	c, st, _ := newTestCache(t, nil)
	f := c.Wrap(add)
	_, _ = f.Call(ctx, 1)
	_, _ = f.Call(ctx, 2)
	if err := f.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if st.Len() != 0 {
		t.Fatalf("Clear left %v", st.Keys())
	}
}

func TestWrapNilPanics(t *testing.T) {
	c, _, _ := newTestCache(t, nil)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	c.Wrap(nil)
}

func TestUnencodableArgument(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t, nil)

	var n int32
	f := c.Wrap(func(context.Context, Args) (string, error) {
		atomic.AddInt32(&n, 1)
		return "v", nil
	})
	if _, err := f.Call(ctx, make(chan int)); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("want ErrInvalidKey, got %v", err)
	}
	if n != 0 {
		t.Fatalf("computation ran with an invalid key")
	}
}

func TestStructArgumentsAreCanonical(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t, nil)

	type filter struct {
		Tags map[string]bool
	}
	var n int32
	f := c.Wrap(func(context.Context, Args) (string, error) {
		atomic.AddInt32(&n, 1)
		return "v", nil
	})
	_, _ = f.Call(ctx, filter{Tags: map[string]bool{"a": true, "b": false, "c": true}})
	_, _ = f.Call(ctx, filter{Tags: map[string]bool{"c": true, "b": false, "a": true}})
	if n != 1 {
		t.Fatalf("equal struct arguments should share an entry, calls=%d", n)
	}
}
