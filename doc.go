// Package memocache memoizes computations on top of pluggable stores.
//
// A Cache looks up a key; a valid entry is returned as is, otherwise the
// computation runs and its result is stored with an optional expiry. Expiry
// is lazy: entries are checked against the clock when read, never swept.
//
// Components:
//   - Store: point-access container of Entry values (store/memory, or any
//     byte provider through store/encoded: Ristretto, BigCache, Redis).
//   - Region: named defaults (store, namespace, max age, expiry base).
//     "default" always exists and comes from Config.
//   - Func: a computation bound to a master key and options. Each call
//     derives its key from the call arguments.
//
// Keys:
//
//	manual:   key                          or (namespace, key)
//	wrapped:  (master, (positional...), ((name, value)...))  named args sorted by name
//
// Usage:
//
//	c, _ := memocache.New(memocache.Config[int]{Store: memory.New[int](), MaxAge: time.Minute})
//	c.SetRegion("short", memocache.Region[int]{MaxAge: 5 * time.Second})
//
//	add := c.Wrap(func(ctx context.Context, a memocache.Args) (int, error) {
//	    return a.Positional[0].(int) + a.Positional[1].(int), nil
//	}, memocache.WithRegion("short"))
//	v, err := add.Call(ctx, 1, 2)
//
// Concurrent misses on the same key run the computation once; every waiter
// gets that result.
package memocache
