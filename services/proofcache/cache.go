// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package proofcache provides the durable, content-addressed proof
// sketch cache that sits between the bundle pipeline and the remote
// prover.
//
// Entries are keyed by (spec digest, algorithm, mathlib version). The
// digest is the SHA-256 of the emitted Lean specification source, so
// any mutation of the safety spec misses rather than reusing a proof
// that was never verified for it. The algorithm and mathlib-version
// components partition the keyspace: a proof cached for PPO against
// one Mathlib snapshot is never returned for SAC or another snapshot,
// even when the digest matches.
//
// # Failure policy
//
// Reads fail open: a storage error or corrupt record degrades to a
// miss, because the pipeline can always regenerate the proof remotely.
// Writes surface their errors so a lost cache write is distinguishable
// from success, but callers treat them as reportable, not fatal. Only
// malformed key components are hard precondition failures.
//
// # Backends
//
// Two Store backends are provided: a file store (one JSON record per
// key, write-temp-then-rename) and an embedded BadgerDB store. Both
// give entry-level atomic replace; distinct cache instances configured
// with distinct locations never interfere.
package proofcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Outcome classifies a cache lookup for logging and metrics.
type Outcome string

const (
	// OutcomeHit means a valid entry was found for the exact key.
	OutcomeHit Outcome = "hit"

	// OutcomeMiss means no entry exists for the key.
	OutcomeMiss Outcome = "miss"

	// OutcomeDegraded means an entry may exist but could not be used
	// (storage error or corrupt record). Treated as a miss by callers;
	// surfaced separately so operators can diagnose unexpected remote
	// prover usage.
	OutcomeDegraded Outcome = "degraded"
)

// LookupResult carries the outcome of a cache lookup. Sketch is non-nil
// only for OutcomeHit. Err is non-nil only for OutcomeDegraded and
// explains the degradation.
type LookupResult struct {
	Outcome Outcome
	Sketch  *ProofSketch
	Err     error
}

// Backend names accepted by Config.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config configures a Cache instance. Each instance exclusively owns
// its storage location; construct separate instances with separate
// directories for isolation. There is no process-wide singleton.
type Config struct {
	// Dir is the storage directory. Required unless Backend is
	// "badger" with InMemory set.
	Dir string

	// Backend selects the store implementation: "file" (default) or
	// "badger".
	Backend string

	// InMemory runs the badger backend without disk persistence.
	// Ignored for the file backend.
	InMemory bool

	// SyncWrites enables synchronous writes on the badger backend.
	SyncWrites bool

	// Logger for cache diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: file backend, synchronous
// durability semantics.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:        dir,
		Backend:    BackendFile,
		SyncWrites: true,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendFile:
		if c.Dir == "" {
			return errors.New("dir must not be empty for the file backend")
		}
	case BackendBadger:
		if c.Dir == "" && !c.InMemory {
			return errors.New("dir must not be empty for the persistent badger backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// Cache is the proof sketch cache. Safe for concurrent use; the store
// backends provide entry-level atomicity and the cache itself holds no
// mutable state besides the closed flag.
type Cache struct {
	store  Store
	logger *slog.Logger
	closed bool
}

// New builds a Cache with the backend selected by cfg.
func New(cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendBadger:
		bcfg := BadgerConfig{
			Path:       cfg.Dir,
			InMemory:   cfg.InMemory,
			SyncWrites: cfg.SyncWrites,
		}
		store, err = NewBadgerStore(bcfg)
	default:
		store, err = NewFileStore(cfg.Dir)
	}
	if err != nil {
		return nil, err
	}
	return NewWithStore(store, logger), nil
}

// NewWithStore wraps an existing Store. Used by tests and callers that
// manage the backend themselves.
func NewWithStore(store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger}
}

// Lookup resolves key to a LookupResult.
//
// The only returned error is ErrInvalidKeyComponent (or a context
// error): storage failures and corrupt records are folded into an
// OutcomeDegraded result per the fail-open policy, since the caller
// can always regenerate the proof remotely.
func (c *Cache) Lookup(ctx context.Context, key Key) (LookupResult, error) {
	if c.closed {
		return LookupResult{}, ErrCacheClosed
	}
	if err := key.Validate(); err != nil {
		return LookupResult{}, err
	}

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		// fall through to decode
	case errors.Is(err, ErrNotFound):
		lookupsTotal.WithLabelValues(string(OutcomeMiss)).Inc()
		return LookupResult{Outcome: OutcomeMiss}, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return LookupResult{}, err
	default:
		lookupsTotal.WithLabelValues(string(OutcomeDegraded)).Inc()
		c.logger.Warn("cache read degraded to miss",
			"key", key.String(),
			"error", err.Error(),
		)
		return LookupResult{Outcome: OutcomeDegraded, Err: err}, nil
	}

	sketch, err := decodeRecord(key, data)
	if err != nil {
		lookupsTotal.WithLabelValues(string(OutcomeDegraded)).Inc()
		c.logger.Warn("corrupt cache entry treated as miss",
			"key", key.String(),
			"error", err.Error(),
		)
		return LookupResult{Outcome: OutcomeDegraded, Err: err}, nil
	}

	lookupsTotal.WithLabelValues(string(OutcomeHit)).Inc()
	c.logger.Debug("cache hit", "key", key.String())
	return LookupResult{Outcome: OutcomeHit, Sketch: sketch}, nil
}

// Get is the fail-open convenience wrapper around Lookup: it returns
// the sketch and true on a hit, and (nil, false) on miss, degradation,
// or invalid key. Use Lookup when the outcome matters.
func (c *Cache) Get(ctx context.Context, key Key) (*ProofSketch, bool) {
	result, err := c.Lookup(ctx, key)
	if err != nil || result.Outcome != OutcomeHit {
		return nil, false
	}
	return result.Sketch, true
}

// Set durably persists sketch under key, replacing any prior entry for
// the exact same key. Storage errors are returned so the caller can
// report the lost write; they are not fatal to the caller's workflow.
func (c *Cache) Set(ctx context.Context, key Key, sketch *ProofSketch) error {
	if c.closed {
		return ErrCacheClosed
	}
	if err := key.Validate(); err != nil {
		writesTotal.WithLabelValues("invalid").Inc()
		return err
	}
	if sketch == nil {
		writesTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: sketch must not be nil", ErrInvalidKeyComponent)
	}

	data, err := encodeRecord(key, sketch)
	if err != nil {
		writesTotal.WithLabelValues("error").Inc()
		return err
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		writesTotal.WithLabelValues("error").Inc()
		return err
	}
	writesTotal.WithLabelValues("ok").Inc()
	c.logger.Debug("proof sketch cached", "key", key.String(), "bytes", len(data))
	return nil
}

// Clear removes all entries from this cache's storage location.
func (c *Cache) Clear(ctx context.Context) error {
	if c.closed {
		return ErrCacheClosed
	}
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	clearsTotal.Inc()
	c.logger.Info("proof cache cleared")
	return nil
}

// Stats reports entry count and approximate size.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	if c.closed {
		return Stats{}, ErrCacheClosed
	}
	return c.store.Stats(ctx)
}

// Close releases the backend. Subsequent operations return
// ErrCacheClosed.
func (c *Cache) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.store.Close()
}
