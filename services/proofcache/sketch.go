// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import (
	"encoding/json"
	"fmt"
)

// ProofSketch is the artifact returned by the remote prover and cached
// to avoid repeat generation. The cache stores and returns it
// unmodified; it is opaque beyond the structure below.
type ProofSketch struct {
	// Proof is the Lean proof text.
	Proof string `json:"proof"`

	// Tactics optionally lists the tactics the prover reported using.
	Tactics []string `json:"tactics,omitempty"`

	// Prover identifies the model that produced the proof.
	Prover string `json:"prover,omitempty"`

	// GeneratedAt is when the proof was produced (Unix milliseconds UTC).
	GeneratedAt int64 `json:"generated_at,omitempty"`

	// Metadata carries open-ended auxiliary data round-tripped as-is.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// record is the on-disk envelope. It echoes the key so a record that
// parses but was stored (or moved) under a different key is detected
// as corrupt rather than silently returned.
type record struct {
	SpecDigest     string      `json:"spec_digest"`
	Algorithm      string      `json:"algorithm"`
	MathlibVersion string      `json:"mathlib_version"`
	Sketch         ProofSketch `json:"sketch"`
}

func encodeRecord(key Key, sketch *ProofSketch) ([]byte, error) {
	rec := record{
		SpecDigest:     key.SpecDigest,
		Algorithm:      key.Algorithm,
		MathlibVersion: key.MathlibVersion,
		Sketch:         *sketch,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal record: %v", ErrCorruptEntry, err)
	}
	return data, nil
}

func decodeRecord(key Key, data []byte) (*ProofSketch, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: unmarshal record: %v", ErrCorruptEntry, err)
	}
	if rec.SpecDigest != key.SpecDigest ||
		rec.Algorithm != key.Algorithm ||
		rec.MathlibVersion != key.MathlibVersion {
		return nil, fmt.Errorf("%w: key echo mismatch (stored for %s/%s)",
			ErrCorruptEntry, rec.Algorithm, rec.MathlibVersion)
	}
	return &rec.Sketch, nil
}
