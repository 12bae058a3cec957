package memocache

import (
	"fmt"
	"sort"

	"github.com/unkn0wn-root/memocache/internal/keys"
)

// Key is an ordered tuple of fragments: strings, integers, floats, bools,
// nil, []byte, nested Keys (or []any). Any other value is encoded as
// canonical CBOR, so maps and structs are usable as long as CBOR can encode them.
type Key []any

// K builds a Key from fragments.
func K(fragments ...any) Key { return Key(fragments) }

func (k Key) Fragments() []any { return k }

// Encode returns the canonical string handed to stores.
func (k Key) Encode() (string, error) {
	s, err := keys.Encode(k)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return s, nil
}

func (k Key) String() string {
	s, err := keys.Encode(k)
	if err != nil {
		return fmt.Sprintf("<invalid key: %v>", err)
	}
	return s
}

// Args are the call-time arguments passed to a computation.
type Args struct {
	Positional []any
	Named      map[string]any
}

// key returns (positional...) and ((name, value)...) sorted by name.
func (a Args) key() (Key, Key) {
	pos := make(Key, len(a.Positional))
	copy(pos, a.Positional)

	names := make([]string, 0, len(a.Named))
	for n := range a.Named {
		names = append(names, n)
	}
	sort.Strings(names)
	named := make(Key, 0, len(names))
	for _, n := range names {
		named = append(named, Key{n, a.Named[n]})
	}
	return pos, named
}
