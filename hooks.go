package memocache

// Hooks are lightweight callbacks for cache events, keyed by storage key.
// Implementations MUST be cheap and non-blocking: they run on the hot path.
type Hooks interface {
	// A valid entry was returned without computing.
	Hit(storageKey string)

	// The computation is about to run for a missing or stale key.
	Miss(storageKey string)

	// A stale entry was found on read and removed.
	Stale(storageKey string)

	// One computation served more than one concurrent caller.
	Shared(storageKey string)

	// The computation returned an error; nothing was cached.
	ComputeError(storageKey string, err error)

	// A store call failed. op ∈ {"get", "set", "del", "clear"}.
	StoreError(op, storageKey string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Hit(string)                       {}
func (NopHooks) Miss(string)                      {}
func (NopHooks) Stale(string)                     {}
func (NopHooks) Shared(string)                    {}
func (NopHooks) ComputeError(string, error)       {}
func (NopHooks) StoreError(string, string, error) {}
