// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileCache(t *testing.T) (*Cache, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "proofstack_cache")
	cache, err := New(DefaultConfig(dir))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, dir
}

func testKey(specText, algo, version string) Key {
	return NewKey(ComputeSpecDigest(specText), algo, version)
}

// TestComputeSpecDigestDeterminism verifies repeated calls return the
// identical digest, and that the empty string hashes to the well-known
// SHA-256 empty-input value (stable across runs and platforms).
func TestComputeSpecDigestDeterminism(t *testing.T) {
	const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	assert.Equal(t, emptySHA256, ComputeSpecDigest(""))

	spec := "theorem safety_proof : ∀ σ, invariant σ → safe_action (ppo_policy σ)"
	first := ComputeSpecDigest(spec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeSpecDigest(spec))
	}
	assert.Len(t, first, 64)
}

// TestComputeSpecDigestSensitivity verifies byte-level differences
// always change the digest.
func TestComputeSpecDigestSensitivity(t *testing.T) {
	base := "inv: |x|<=2.4"
	variants := []string{
		"inv: |x|<=2.5",   // single character change
		"inv:  |x|<=2.4",  // whitespace change
		"inv: |x|<=2.4\n", // trailing newline
		"inv: |x|≤2.4",    // unicode operator
		"",                // empty vs non-empty
	}
	baseDigest := ComputeSpecDigest(base)
	for _, v := range variants {
		assert.NotEqual(t, baseDigest, ComputeSpecDigest(v), "variant %q must differ", v)
	}
}

// TestRoundTrip verifies set-then-get returns semantically identical
// data, including tactic lists and open-ended metadata.
func TestRoundTrip(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()

	key := testKey("round trip spec", "ppo", "v2024.1")
	sketch := &ProofSketch{
		Proof:       "by simp [h_guard]",
		Tactics:     []string{"simp", "linarith"},
		Prover:      "fireworks/deepseek-prover-v2",
		GeneratedAt: 1700000000000,
		Metadata: map[string]any{
			"temperature": float64(0),
			"verified":    true,
			"note":        "ℝ → ℝ invariants with α, β, ≤",
		},
	}

	require.NoError(t, cache.Set(ctx, key, sketch))

	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, sketch, got)
}

// TestAlgorithmIsolation: a proof cached for one algorithm is never
// returned for another, even with identical digest and version.
func TestAlgorithmIsolation(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()

	digest := ComputeSpecDigest("shared spec text")
	ppoKey := NewKey(digest, "ppo", "v2024.1")
	sacKey := NewKey(digest, "sac", "v2024.1")

	require.NoError(t, cache.Set(ctx, ppoKey, &ProofSketch{Proof: "ppo proof"}))

	_, ok := cache.Get(ctx, sacKey)
	assert.False(t, ok, "sac lookup must not see the ppo entry")

	got, ok := cache.Get(ctx, ppoKey)
	require.True(t, ok)
	assert.Equal(t, "ppo proof", got.Proof)
}

// TestMathlibVersionIsolation: same digest and algorithm, different
// dependency snapshot, must miss.
func TestMathlibVersionIsolation(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()

	digest := ComputeSpecDigest("shared spec text")
	v1Key := NewKey(digest, "ppo", "v1")
	v2Key := NewKey(digest, "ppo", "v2")

	require.NoError(t, cache.Set(ctx, v1Key, &ProofSketch{Proof: "checked against v1"}))

	_, ok := cache.Get(ctx, v2Key)
	assert.False(t, ok, "v2 lookup must not see the v1 entry")
}

// TestMutationInvalidation: changing the spec text changes the digest,
// so the lookup misses even with algorithm and version unchanged, and
// the original entry stays valid under its own key.
func TestMutationInvalidation(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()

	originalKey := testKey("cart_position <= 2.4", "ppo", "v2024.1")
	mutatedKey := testKey("cart_position <= 2.5", "ppo", "v2024.1")
	require.NotEqual(t, originalKey.SpecDigest, mutatedKey.SpecDigest)

	require.NoError(t, cache.Set(ctx, originalKey, &ProofSketch{Proof: "original"}))

	_, ok := cache.Get(ctx, mutatedKey)
	assert.False(t, ok, "mutated spec must miss")

	got, ok := cache.Get(ctx, originalKey)
	require.True(t, ok)
	assert.Equal(t, "original", got.Proof)
}

// TestOverwrite: the second set for a key fully replaces the first.
func TestOverwrite(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()

	key := testKey("overwrite spec", "ppo", "v2024.1")
	require.NoError(t, cache.Set(ctx, key, &ProofSketch{
		Proof:   "first",
		Tactics: []string{"simp"},
	}))
	require.NoError(t, cache.Set(ctx, key, &ProofSketch{Proof: "second"}))

	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "second", got.Proof)
	assert.Empty(t, got.Tactics, "no leftover fields from the first entry")
}

// TestClear: after clear, every previously set key misses; unrelated
// storage is untouched.
func TestClear(t *testing.T) {
	cache, dir := newFileCache(t)
	ctx := context.Background()

	keys := []Key{
		testKey("spec one", "ppo", "v1"),
		testKey("spec two", "sac", "v1"),
		testKey("spec three", "ddpg", "v2"),
	}
	for i, key := range keys {
		require.NoError(t, cache.Set(ctx, key, &ProofSketch{Proof: fmt.Sprintf("proof %d", i)}))
	}

	// A non-record file in the cache dir must survive the clear.
	unrelated := filepath.Join(dir, "NOTES.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0640))

	require.NoError(t, cache.Clear(ctx))

	for _, key := range keys {
		_, ok := cache.Get(ctx, key)
		assert.False(t, ok)
	}
	_, err := os.Stat(unrelated)
	assert.NoError(t, err)
}

// TestConcreteScenario is the end-to-end contract example: spec text
// "inv: |x|<=2.4" with ppo/v2024.1 misses, hits after set, and stays
// invisible to sac.
func TestConcreteScenario(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()

	digest := ComputeSpecDigest("inv: |x|<=2.4")
	key := NewKey(digest, "ppo", "v2024.1")

	_, ok := cache.Get(ctx, key)
	require.False(t, ok, "first lookup must miss")

	require.NoError(t, cache.Set(ctx, key, &ProofSketch{Proof: "by simp"}))

	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "by simp", got.Proof)

	_, ok = cache.Get(ctx, NewKey(digest, "sac", "v2024.1"))
	assert.False(t, ok, "sac with otherwise identical key must miss")
}

// TestCorruptedRecordResilience: damaging one stored record degrades
// that key to a miss without exceptions, while an intact unrelated key
// still hits.
func TestCorruptedRecordResilience(t *testing.T) {
	cache, dir := newFileCache(t)
	ctx := context.Background()

	damaged := testKey("damaged spec", "ppo", "v1")
	intact := testKey("intact spec", "sac", "v1")
	require.NoError(t, cache.Set(ctx, damaged, &ProofSketch{Proof: "will be damaged"}))
	require.NoError(t, cache.Set(ctx, intact, &ProofSketch{Proof: "still fine"}))

	recordPath := filepath.Join(dir, damaged.String()+".json")
	require.NoError(t, os.WriteFile(recordPath, []byte(`{"malformed": json}`), 0640))

	result, err := cache.Lookup(ctx, damaged)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDegraded, result.Outcome)
	assert.ErrorIs(t, result.Err, ErrCorruptEntry)
	assert.Nil(t, result.Sketch)

	got, ok := cache.Get(ctx, intact)
	require.True(t, ok)
	assert.Equal(t, "still fine", got.Proof)
}

// TestKeyEchoMismatchIsCorrupt: a record that parses but was moved
// under a different key must not be returned.
func TestKeyEchoMismatchIsCorrupt(t *testing.T) {
	cache, dir := newFileCache(t)
	ctx := context.Background()

	source := testKey("source spec", "ppo", "v1")
	target := testKey("target spec", "ppo", "v1")
	require.NoError(t, cache.Set(ctx, source, &ProofSketch{Proof: "ppo-only"}))

	// Simulate an operator copying a record file over another key.
	data, err := os.ReadFile(filepath.Join(dir, source.String()+".json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, target.String()+".json"), data, 0640))

	result, err := cache.Lookup(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDegraded, result.Outcome)
	assert.ErrorIs(t, result.Err, ErrCorruptEntry)
}

// TestStorageErrorDegradesRead: when the cache directory disappears out
// from under the store, lookups degrade instead of failing hard.
func TestStorageErrorDegradesRead(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "cache")
	cache, err := New(DefaultConfig(dir))
	require.NoError(t, err)
	defer cache.Close()
	ctx := context.Background()

	key := testKey("spec", "ppo", "v1")
	require.NoError(t, cache.Set(ctx, key, &ProofSketch{Proof: "p"}))

	// Replace the cache directory with a regular file: reads now fail
	// with ENOTDIR, which is a storage error rather than a clean miss.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0640))

	result, err := cache.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDegraded, result.Outcome)
	assert.ErrorIs(t, result.Err, ErrStorageUnavailable)
}

// TestStorageErrorSurfacedOnWrite: a failed write is a reportable
// error, never silent success.
func TestStorageErrorSurfacedOnWrite(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "cache")
	cache, err := New(DefaultConfig(dir))
	require.NoError(t, err)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0640))

	err = cache.Set(ctx, testKey("spec", "ppo", "v1"), &ProofSketch{Proof: "p"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

// TestInvalidKeyComponents: malformed components are precondition
// failures, not misses.
func TestInvalidKeyComponents(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()
	digest := ComputeSpecDigest("spec")

	tests := []struct {
		name string
		key  Key
	}{
		{"empty algorithm", NewKey(digest, "", "v1")},
		{"empty version", NewKey(digest, "ppo", "")},
		{"empty digest", NewKey("", "ppo", "v1")},
		{"short digest", NewKey("abc123", "ppo", "v1")},
		{"traversal algorithm", NewKey(digest, "../ppo", "v1")},
		{"underscore version", NewKey(digest, "ppo", "v_1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cache.Lookup(ctx, tt.key)
			assert.ErrorIs(t, err, ErrInvalidKeyComponent)

			err = cache.Set(ctx, tt.key, &ProofSketch{Proof: "p"})
			assert.ErrorIs(t, err, ErrInvalidKeyComponent)
		})
	}

	err := cache.Set(ctx, NewKey(digest, "ppo", "v1"), nil)
	assert.ErrorIs(t, err, ErrInvalidKeyComponent)
}

// TestPersistenceAcrossInstances: entries survive process restarts
// (modeled as a second cache instance over the same directory).
func TestPersistenceAcrossInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	ctx := context.Background()
	key := testKey("durable spec", "ppo", "v2024.1")

	first, err := New(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, key, &ProofSketch{Proof: "durable"}))
	require.NoError(t, first.Close())

	second, err := New(DefaultConfig(dir))
	require.NoError(t, err)
	defer second.Close()

	got, ok := second.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "durable", got.Proof)
}

// TestConcurrentWritesDistinctKeys: parallel writers on different keys
// never interfere.
func TestConcurrentWritesDistinctKeys(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := testKey(fmt.Sprintf("spec %d", i), "ppo", "v1")
			errs[i] = cache.Set(ctx, key, &ProofSketch{Proof: fmt.Sprintf("proof %d", i)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		got, ok := cache.Get(ctx, testKey(fmt.Sprintf("spec %d", i), "ppo", "v1"))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("proof %d", i), got.Proof)
	}
}

// TestConcurrentSameKey: same-key racers must never corrupt the stored
// record; the surviving entry is one of the written values.
func TestConcurrentSameKey(t *testing.T) {
	cache, _ := newFileCache(t)
	ctx := context.Background()
	key := testKey("contended spec", "ppo", "v1")

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = cache.Set(ctx, key, &ProofSketch{Proof: fmt.Sprintf("proof %d", i)})
		}(i)
	}
	wg.Wait()

	got, ok := cache.Get(ctx, key)
	require.True(t, ok, "record must parse after racing writers")
	assert.Regexp(t, `^proof [0-7]$`, got.Proof)
}

func TestClosedCache(t *testing.T) {
	cache, _ := newFileCache(t)
	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close(), "double close is harmless")

	ctx := context.Background()
	key := testKey("spec", "ppo", "v1")

	_, err := cache.Lookup(ctx, key)
	assert.ErrorIs(t, err, ErrCacheClosed)
	assert.ErrorIs(t, cache.Set(ctx, key, &ProofSketch{Proof: "p"}), ErrCacheClosed)
	assert.ErrorIs(t, cache.Clear(ctx), ErrCacheClosed)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file with dir", Config{Backend: BackendFile, Dir: "/tmp/x"}, false},
		{"default backend with dir", Config{Dir: "/tmp/x"}, false},
		{"file without dir", Config{Backend: BackendFile}, true},
		{"badger in-memory", Config{Backend: BackendBadger, InMemory: true}, false},
		{"badger without dir", Config{Backend: BackendBadger}, true},
		{"unknown backend", Config{Backend: "redis", Dir: "/tmp/x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
