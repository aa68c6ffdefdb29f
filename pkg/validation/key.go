// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for proof-cache key
// components and other user-supplied identifiers.
//
// Key components end up in file names and embedded-database keys, so
// the validators here use strict allow-lists to prevent path traversal
// and key-separator injection.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// algorithmPattern matches RL algorithm identifiers.
// Allows: lowercase letters, digits, hyphens. Max length: 32.
var algorithmPattern = regexp.MustCompile(`^[a-z][a-z0-9\-]{0,31}$`)

// digestPattern matches a hex-encoded SHA-256 digest.
var digestPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// mathlibVersionPattern matches Mathlib version identifiers: release
// tags ("v2024.1"), commit hashes, or the literal "latest".
// Allows: alphanumerics, dots, hyphens. Max length: 64.
var mathlibVersionPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]{0,63}$`)

// knownAlgorithms is the set of algorithms ProofStack ships Lean
// templates for. Validation does not restrict to this set; callers that
// need a template use IsKnownAlgorithm.
var knownAlgorithms = map[string]bool{
	"ppo":  true,
	"sac":  true,
	"ddpg": true,
}

// ValidateAlgorithm validates an RL algorithm identifier.
//
// Valid identifiers are 1-32 characters, start with a lowercase letter,
// and contain only lowercase letters, digits, and hyphens.
//
// Example:
//
//	if err := validation.ValidateAlgorithm(algo); err != nil {
//	    return fmt.Errorf("invalid algorithm: %w", err)
//	}
//	// Safe to use in cache keys and file names
func ValidateAlgorithm(algo string) error {
	if algo == "" {
		return fmt.Errorf("algorithm cannot be empty")
	}
	if !algorithmPattern.MatchString(algo) {
		return fmt.Errorf("invalid algorithm format: %q (must be 1-32 lowercase alphanumeric chars or hyphens)", algo)
	}
	return nil
}

// SanitizeAlgorithm normalizes and validates an algorithm identifier.
// Returns the lowercase identifier if valid, or an error.
func SanitizeAlgorithm(algo string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(algo))
	if err := ValidateAlgorithm(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// IsKnownAlgorithm reports whether ProofStack ships a Lean proof
// template for the given algorithm.
func IsKnownAlgorithm(algo string) bool {
	return knownAlgorithms[algo]
}

// KnownAlgorithms returns the algorithms with shipped templates.
func KnownAlgorithms() []string {
	return []string{"ppo", "sac", "ddpg"}
}

// ValidateSpecDigest validates a hex-encoded SHA-256 specification
// digest (64 lowercase hex characters).
func ValidateSpecDigest(digest string) error {
	if digest == "" {
		return fmt.Errorf("spec digest cannot be empty")
	}
	if !digestPattern.MatchString(digest) {
		return fmt.Errorf("invalid spec digest format: %q (must be 64 lowercase hex chars)", truncate(digest, 16))
	}
	return nil
}

// ValidateMathlibVersion validates a Mathlib dependency-version
// identifier (release tag, commit hash, or "latest").
func ValidateMathlibVersion(version string) error {
	if version == "" {
		return fmt.Errorf("mathlib version cannot be empty")
	}
	if !mathlibVersionPattern.MatchString(version) {
		return fmt.Errorf("invalid mathlib version format: %q (must be 1-64 alphanumeric chars, dots, or hyphens)", version)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
