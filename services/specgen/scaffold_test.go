// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package specgen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaffold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cartpole")

	require.NoError(t, Scaffold("CartPole-v1", dir))

	spec, err := LoadSafetySpec(filepath.Join(dir, SpecFileName))
	require.NoError(t, err)
	assert.Equal(t, "CartPole-v1", spec.Environment)
	assert.NotEmpty(t, spec.Invariants)
}

func TestScaffoldRefusesExistingProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cartpole")

	require.NoError(t, Scaffold("CartPole-v1", dir))
	err := Scaffold("CartPole-v1", dir)
	assert.ErrorContains(t, err, "already initialized")
}

func TestValidateEnvName(t *testing.T) {
	assert.NoError(t, ValidateEnvName("CartPole-v1"))
	assert.NoError(t, ValidateEnvName("LunarLander-v2"))

	assert.ErrorIs(t, ValidateEnvName(""), ErrInvalidEnvName)
	assert.ErrorIs(t, ValidateEnvName("../escape"), ErrInvalidEnvName)
	assert.ErrorIs(t, ValidateEnvName("bad name"), ErrInvalidEnvName)
}
