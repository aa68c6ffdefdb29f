// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 2048, cfg.Prover.MaxTokens)
	assert.Equal(t, "attestation_bundle", cfg.Paths.BundleDir)
}

func TestLoadFromPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proofstack.yaml")
	content := `
cache:
  backend: badger
  dir: /var/lib/proofstack/cache
server:
  listen_addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var cfg ProofstackConfig
	require.NoError(t, loadFromPath(path, &cfg))

	assert.Equal(t, "badger", cfg.Cache.Backend)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	// Unspecified sections keep their defaults.
	assert.Equal(t, 2048, cfg.Prover.MaxTokens)
	assert.Equal(t, "specs", cfg.Paths.SpecsDir)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	var cfg ProofstackConfig
	err := loadFromPath(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	assert.Error(t, err)
}

func TestCreateDefaultWritesParseableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "proofstack.yaml")
	require.NoError(t, createDefault(path))

	var cfg ProofstackConfig
	require.NoError(t, loadFromPath(path, &cfg))

	want := DefaultConfig()
	assert.Equal(t, want.Cache, cfg.Cache)
	assert.Equal(t, want.Paths, cfg.Paths)
	assert.Equal(t, want.Server, cfg.Server)
	assert.Equal(t, want.Prover, cfg.Prover)
	assert.Equal(t, want.Logging, cfg.Logging)
	// YAML round-trips a nil Args slice as an empty one, so compare
	// the trainer section field-wise.
	assert.Equal(t, want.Trainer.Command, cfg.Trainer.Command)
	assert.Empty(t, cfg.Trainer.Args)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded := ExpandPath("~/.proofstack/cache")
	assert.True(t, strings.HasPrefix(expanded, home))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "rel/path", ExpandPath("rel/path"))
}
