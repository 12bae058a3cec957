// Package sloghooks logs memocache events with log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/memocache"
)

type Options struct {
	// Sampling for high-volume events; 0/1 = log all.
	HitEvery   uint64
	MissEvery  uint64
	StaleEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr   atomic.Uint64
	missCtr  atomic.Uint64
	staleCtr atomic.Uint64
}

var _ memocache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(k string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("memocache.hit", "key", h.redact(k))
}

func (h *Hooks) Miss(k string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("memocache.miss", "key", h.redact(k))
}

func (h *Hooks) Stale(k string) {
	if h.l == nil || !sample(h.opts.StaleEvery, &h.staleCtr) {
		return
	}
	h.l.Debug("memocache.stale", "key", h.redact(k))
}

func (h *Hooks) Shared(k string) {
	if h.l == nil {
		return
	}
	h.l.Debug("memocache.shared_compute", "key", h.redact(k))
}

func (h *Hooks) ComputeError(k string, err error) {
	if h.l == nil {
		return
	}
	h.l.Info("memocache.compute_error",
		"key", h.redact(k),
		"err", err)
}

func (h *Hooks) StoreError(op, k string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("memocache.store_error",
		"op", op,
		"key", h.redact(k),
		"err", err)
}
