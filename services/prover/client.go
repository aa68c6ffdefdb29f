// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package prover generates Lean4 proof bodies for emitted safety
// specifications. The production client calls the Fireworks inference
// API; a mock client serves offline runs and tests.
package prover

import (
	"context"
	"errors"
)

// FallbackProof is the proof body used when the remote prover is
// unreachable or returns nothing usable. It discharges the guard-based
// safety obligations in the generated specifications.
const FallbackProof = "simp [h_guard]"

var (
	// ErrNoAPIKey indicates no Fireworks credential could be resolved
	// from the environment or the secrets mount.
	ErrNoAPIKey = errors.New("prover: no API key configured")

	// ErrEmptySpec indicates the caller passed an empty Lean source.
	ErrEmptySpec = errors.New("prover: lean source is empty")
)

// Client produces a Lean4 proof body for the given specification
// source. Implementations must be safe for concurrent use.
type Client interface {
	// Complete returns a proof body for leanSource. Implementations
	// may substitute FallbackProof on upstream failure rather than
	// returning an error; only unrecoverable conditions (cancelled
	// context, missing credentials) surface as errors.
	Complete(ctx context.Context, leanSource string) (string, error)

	// Name identifies the prover for attestation records.
	Name() string
}
