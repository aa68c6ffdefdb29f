// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import "context"

// Store is the persistence backend for the proof cache. Backends deal
// in encoded record bytes; key semantics, record validation, and the
// fail-open policy live in Cache.
//
// Implementations must make Set atomic at the granularity of one entry:
// a Get racing a Set observes either the old or the new record, never a
// torn one. No cross-key coordination is required.
type Store interface {
	// Get returns the record bytes for key, or ErrNotFound if no entry
	// exists. Other errors indicate storage-layer failure.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set durably persists data under key, replacing any prior entry.
	Set(ctx context.Context, key Key, data []byte) error

	// Clear removes all entries in this store's configured location
	// only; unrelated storage is never touched.
	Clear(ctx context.Context) error

	// Stats reports entry count and approximate byte usage.
	Stats(ctx context.Context) (Stats, error)

	// Close releases backend resources.
	Close() error
}

// Stats summarizes store contents.
type Stats struct {
	// Entries is the number of persisted records.
	Entries int `json:"entries"`

	// Bytes is the approximate total size of persisted records.
	Bytes int64 `json:"bytes"`
}
