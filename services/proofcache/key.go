// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/saferl-ai/proofstack/pkg/validation"
)

// Key is the composite cache key. Equality requires exact equality of
// all three fields; there is no partial matching. A proof cached for
// one algorithm or Mathlib snapshot is never returned for another.
type Key struct {
	// SpecDigest is the hex-encoded SHA-256 of the canonical Lean
	// specification source.
	SpecDigest string

	// Algorithm is the RL algorithm the proof was generated for
	// (e.g. "ppo", "sac", "ddpg").
	Algorithm string

	// MathlibVersion pins the Mathlib snapshot the proof was checked
	// against (release tag, commit hash, or "latest").
	MathlibVersion string
}

// NewKey constructs a Key. Call Validate before using it against a
// store; the cache operations do this themselves.
func NewKey(specDigest, algorithm, mathlibVersion string) Key {
	return Key{
		SpecDigest:     specDigest,
		Algorithm:      algorithm,
		MathlibVersion: mathlibVersion,
	}
}

// Validate checks all three components against their allow-lists.
// Any failure is reported as ErrInvalidKeyComponent: a programmer
// error, not a runtime condition to recover from.
func (k Key) Validate() error {
	if err := validation.ValidateSpecDigest(k.SpecDigest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKeyComponent, err)
	}
	if err := validation.ValidateAlgorithm(k.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKeyComponent, err)
	}
	if err := validation.ValidateMathlibVersion(k.MathlibVersion); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKeyComponent, err)
	}
	return nil
}

// String returns the flat storage key "<digest>_<algorithm>_<version>".
// The component validators forbid underscores, so the encoding is
// unambiguous.
func (k Key) String() string {
	return k.SpecDigest + "_" + k.Algorithm + "_" + k.MathlibVersion
}

// ComputeSpecDigest returns the hex-encoded SHA-256 of the exact byte
// sequence of specText. The digest is deterministic across runs and
// platforms; any byte-level difference, including whitespace, yields a
// different digest. The empty string is legal input.
func ComputeSpecDigest(specText string) string {
	sum := sha256.Sum256([]byte(specText))
	return hex.EncodeToString(sum[:])
}
