// Package encoded adapts a byte provider and a codec into a store.Store.
//
// Entries are framed with their expiry (internal/wire) so the engine's lazy
// expiry works the same on every backend. The provider TTL is set to the
// remaining lifetime, which lets backends reclaim space on their own.
package encoded

import (
	"context"
	"errors"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/memocache/codec"
	"github.com/unkn0wn-root/memocache/internal/wire"
	pr "github.com/unkn0wn-root/memocache/provider"
	"github.com/unkn0wn-root/memocache/store"
)

var (
	ErrNilProvider = errors.New("encoded: provider is required")
	ErrNilCodec    = errors.New("encoded: codec is required")
	// ErrRejected is returned when the provider refused a write under pressure.
	ErrRejected = errors.New("encoded: provider rejected write")
)

type Store[V any] struct {
	p     pr.Provider
	codec c.Codec[V]
	now   func() time.Time
}

var (
	_ store.Store[struct{}] = (*Store[struct{}])(nil)
	_ store.Clearer         = (*Store[struct{}])(nil)
)

type Options[V any] struct {
	Provider pr.Provider
	Codec    c.Codec[V]
	// Now computes provider TTLs from entry expiries. nil => time.Now.
	// Share the engine's clock when both are overridden.
	Now func() time.Time
}

func New[V any](opts Options[V]) (*Store[V], error) {
	if opts.Provider == nil {
		return nil, ErrNilProvider
	}
	if opts.Codec == nil {
		return nil, ErrNilCodec
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store[V]{p: opts.Provider, codec: opts.Codec, now: now}, nil
}

// Get returns a miss for corrupt or undecodable payloads and deletes them.
func (s *Store[V]) Get(ctx context.Context, key string) (store.Entry[V], bool, error) {
	var zero store.Entry[V]
	raw, ok, err := s.p.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	exp, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		_ = s.p.Del(ctx, key) // self-heal corrupt
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		_ = s.p.Del(ctx, key)
		return zero, false, nil
	}
	return store.Entry[V]{Value: v, Expiry: exp}, true, nil
}

func (s *Store[V]) Set(ctx context.Context, key string, e store.Entry[V]) error {
	payload, err := s.codec.Encode(e.Value)
	if err != nil {
		return fmt.Errorf("encoded: encode %q: %w", key, err)
	}
	raw := wire.EncodeEntry(e.Expiry, payload)

	var ttl time.Duration
	if e.HasExpiry() {
		// An already elapsed expiry is kept without a backend TTL: the
		// engine must still see the entry to report and restamp it.
		if d := e.Expiry.Sub(s.now()); d > 0 {
			ttl = d
		}
	}
	ok, err := s.p.Set(ctx, key, raw, int64(len(raw)), ttl)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRejected
	}
	return nil
}

func (s *Store[V]) Del(ctx context.Context, key string) error {
	return s.p.Del(ctx, key)
}

// Clear forwards to the provider when it implements provider.Clearer.
func (s *Store[V]) Clear(ctx context.Context) error {
	cl, ok := s.p.(pr.Clearer)
	if !ok {
		return errors.ErrUnsupported
	}
	return cl.Clear(ctx)
}

// Close closes the underlying provider.
func (s *Store[V]) Close(ctx context.Context) error { return s.p.Close(ctx) }
