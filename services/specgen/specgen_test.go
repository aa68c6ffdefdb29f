// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package specgen

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, spec *SafetySpec) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	gen, err := NewGenerator(spec, dir, slog.Default())
	require.NoError(t, err)
	return gen, dir
}

func TestEmitLeanDefaults(t *testing.T) {
	gen, dir := newGenerator(t, DefaultSafetySpec())

	lean, err := gen.EmitLean("ppo")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, LeanFileName), lean.Path)
	assert.Equal(t, "ppo", lean.Algorithm)
	assert.Contains(t, lean.Source, "PPO Safety Specification")
	assert.Contains(t, lean.Source, "theorem safe_ppo_policy")
	assert.Contains(t, lean.Source, "|σ.cart_position| ≤ 2.4")
	assert.Contains(t, lean.Source, "|σ.pole_angle| ≤ 0.2095")
	assert.Contains(t, lean.Source, "sorry")

	// Source on disk matches the returned text exactly.
	data, err := os.ReadFile(lean.Path)
	require.NoError(t, err)
	assert.Equal(t, lean.Source, string(data))
}

func TestEmitLeanPerAlgorithmTheorems(t *testing.T) {
	spec := DefaultSafetySpec()

	for _, algo := range []string{"ppo", "sac", "ddpg"} {
		gen, _ := newGenerator(t, spec)
		lean, err := gen.EmitLean(algo)
		require.NoError(t, err)
		assert.Contains(t, lean.Source, "theorem safe_"+algo+"_policy")
	}
}

// TestEmitLeanDeterministic: the emitted source is the cache's content
// address, so repeated emission of the same spec must be byte
// identical.
func TestEmitLeanDeterministic(t *testing.T) {
	spec := DefaultSafetySpec()

	genA, _ := newGenerator(t, spec)
	genB, _ := newGenerator(t, spec)

	a, err := genA.EmitLean("sac")
	require.NoError(t, err)
	b, err := genB.EmitLean("sac")
	require.NoError(t, err)

	assert.Equal(t, a.Source, b.Source)
}

func TestEmitLeanCustomSpec(t *testing.T) {
	spec := &SafetySpec{
		Environment: "LunarLander-v2",
		Invariants:  []string{"|σ.cart_position| ≤ 1.0"},
		Lemmas:      []string{"∀ x : ℝ, |x| ≥ 0"},
	}
	gen, _ := newGenerator(t, spec)

	lean, err := gen.EmitLean("ppo")
	require.NoError(t, err)

	assert.Contains(t, lean.Source, "User-specified invariants")
	assert.Contains(t, lean.Source, "|σ.cart_position| ≤ 1.0")
	assert.Contains(t, lean.Source, "user_lemma_1")
	// Guard section left empty falls back to the defaults.
	assert.Contains(t, lean.Source, "default_guard")
}

func TestEmitLeanRejectsBadAlgorithm(t *testing.T) {
	gen, _ := newGenerator(t, DefaultSafetySpec())

	_, err := gen.EmitLean("PPO; rm -rf /")
	assert.Error(t, err)
}

func TestNewGeneratorRequiresSpec(t *testing.T) {
	_, err := NewGenerator(nil, t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrNoSpec)
}

func TestWriteProofReplacesSorry(t *testing.T) {
	gen, _ := newGenerator(t, DefaultSafetySpec())
	lean, err := gen.EmitLean("ppo")
	require.NoError(t, err)

	require.NoError(t, WriteProof(lean.Path, "simp [h_guard]"))

	data, err := os.ReadFile(lean.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sorry")
	assert.Contains(t, string(data), "simp [h_guard]")
}

func TestWriteProofAppendsWithoutPlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LeanFileName)
	require.NoError(t, os.WriteFile(path, []byte("theorem t : True := trivial\n"), 0640))

	require.NoError(t, WriteProof(path, "exact trivial"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimRight(string(data), "\n"), "exact trivial"))
	assert.Contains(t, string(data), "-- Generated proof:")
}

func TestSafetySpecSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specs", "safety.yaml")
	spec := DefaultSafetySpec()
	require.NoError(t, spec.Save(path))

	loaded, err := LoadSafetySpec(path)
	require.NoError(t, err)
	assert.Equal(t, spec.Environment, loaded.Environment)
	assert.Equal(t, spec.Invariants, loaded.Invariants)
	assert.Equal(t, spec.Guard, loaded.Guard)
}

func TestLoadSafetySpecMissingFile(t *testing.T) {
	_, err := LoadSafetySpec(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
