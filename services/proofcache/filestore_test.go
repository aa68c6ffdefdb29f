// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRecordLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	key := testKey("layout spec", "ppo", "v2024.1")
	require.NoError(t, store.Set(ctx, key, []byte(`{"x":1}`)))

	// One file per key, named <digest>_<algorithm>_<version>.json.
	expected := filepath.Join(dir, key.SpecDigest+"_ppo_v2024.1.json")
	_, err = os.Stat(expected)
	assert.NoError(t, err)
}

func TestFileStoreGetNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), testKey("absent", "ppo", "v1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, testKey("a", "ppo", "v1"), []byte("one")))
	require.NoError(t, store.Set(ctx, testKey("b", "sac", "v1"), []byte("two")))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".tmp-entry-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStoreClearScopedToDirectory(t *testing.T) {
	parent := t.TempDir()
	dirA := filepath.Join(parent, "a")
	dirB := filepath.Join(parent, "b")

	storeA, err := NewFileStore(dirA)
	require.NoError(t, err)
	storeB, err := NewFileStore(dirB)
	require.NoError(t, err)

	ctx := context.Background()
	key := testKey("scoped", "ppo", "v1")
	require.NoError(t, storeA.Set(ctx, key, []byte("a")))
	require.NoError(t, storeB.Set(ctx, key, []byte("b")))

	require.NoError(t, storeA.Clear(ctx))

	_, err = storeA.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	// The other instance's location is untouched.
	data, err := storeB.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)
}

func TestFileStoreStats(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	require.NoError(t, store.Set(ctx, testKey("a", "ppo", "v1"), []byte("12345")))
	require.NoError(t, store.Set(ctx, testKey("b", "sac", "v1"), []byte("1234567890")))

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(15), stats.Bytes)
}

func TestFileStoreEmptyDirRejected(t *testing.T) {
	_, err := NewFileStore("")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestFileStoreContextCancellation(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Get(ctx, testKey("a", "ppo", "v1"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Set(ctx, testKey("a", "ppo", "v1"), []byte("x")), context.Canceled)
}
