// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pipeline

import (
	"errors"

	"github.com/saferl-ai/proofstack/pkg/validation"
)

// ErrNoAlgorithms is returned when a run is requested without any
// algorithm.
var ErrNoAlgorithms = errors.New("pipeline: at least one algorithm is required")

// Options controls one pipeline run. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	// Algorithms to prove, each in its own working subdirectory so
	// runs can proceed concurrently.
	Algorithms []string

	// MathlibVersion pins the proof context used in cache keys.
	MathlibVersion string

	// ReuseCache enables cache reads. Disabled by --no-cache.
	ReuseCache bool

	// WriteCache enables storing freshly generated proofs. Disabled
	// by --no-cache or --no-cache-write.
	WriteCache bool
}

// DefaultOptions returns a single-algorithm run with caching on.
func DefaultOptions() Options {
	return Options{
		Algorithms:     []string{"ppo"},
		MathlibVersion: "latest",
		ReuseCache:     true,
		WriteCache:     true,
	}
}

// Validate checks the options before a run.
func (o Options) Validate() error {
	if len(o.Algorithms) == 0 {
		return ErrNoAlgorithms
	}
	seen := map[string]struct{}{}
	for _, algo := range o.Algorithms {
		if err := validation.ValidateAlgorithm(algo); err != nil {
			return err
		}
		if _, dup := seen[algo]; dup {
			return errors.New("pipeline: duplicate algorithm " + algo)
		}
		seen[algo] = struct{}{}
	}
	if err := validation.ValidateMathlibVersion(o.MathlibVersion); err != nil {
		return err
	}
	return nil
}
