// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import "errors"

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrStorageUnavailable indicates the backing location cannot be
	// read or written (permissions, missing path, disk full). Reads
	// degrade to a miss; writes surface this to the caller.
	ErrStorageUnavailable = errors.New("proof cache storage unavailable")

	// ErrCorruptEntry indicates a stored record cannot be parsed or
	// fails its key integrity check. Treated as a miss on read.
	ErrCorruptEntry = errors.New("proof cache entry corrupt")

	// ErrInvalidKeyComponent indicates a malformed digest, algorithm,
	// or mathlib version. This is a precondition failure surfaced
	// immediately to the caller, never converted to a miss.
	ErrInvalidKeyComponent = errors.New("invalid proof cache key component")

	// ErrNotFound indicates no entry exists for the requested key.
	// Store backends return it to signal a clean miss.
	ErrNotFound = errors.New("proof cache entry not found")

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed = errors.New("proof cache is closed")
)
