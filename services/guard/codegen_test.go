// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package guard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferl-ai/proofstack/services/specgen"
)

func TestEmitC(t *testing.T) {
	dir := t.TempDir()

	path, err := EmitC(specgen.DefaultSafetySpec(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, GuardFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	source := string(data)

	assert.Contains(t, source, "#define MAX_POSITION 2.4")
	assert.Contains(t, source, "#define MAX_ANGLE 0.2095")
	assert.Contains(t, source, "#define MAX_FORCE 10.0")
	assert.Contains(t, source, "bool check_safety(")
	// Plain C99, no C++ linkage directives.
	assert.NotContains(t, source, `extern "C"`)
}

func TestRenderStampsSpecHash(t *testing.T) {
	spec := specgen.DefaultSafetySpec()

	source, err := Render(spec)
	require.NoError(t, err)
	assert.Contains(t, source, "Generated from specification hash: "+SpecHash(spec))
}

func TestSpecHashSensitivity(t *testing.T) {
	base := specgen.DefaultSafetySpec()

	changed := specgen.DefaultSafetySpec()
	changed.Invariants = append(changed.Invariants, "|σ.cart_velocity| ≤ 5.0")
	assert.NotEqual(t, SpecHash(base), SpecHash(changed))

	// Moving a clause between sections also changes the hash.
	moved := specgen.DefaultSafetySpec()
	moved.Lemmas = append(moved.Lemmas, moved.Invariants[0])
	moved.Invariants = moved.Invariants[1:]
	assert.NotEqual(t, SpecHash(base), SpecHash(moved))
}

func TestSpecHashDeterministic(t *testing.T) {
	assert.Equal(t, SpecHash(specgen.DefaultSafetySpec()), SpecHash(specgen.DefaultSafetySpec()))
}

func TestRenderRequiresSpec(t *testing.T) {
	_, err := Render(nil)
	assert.ErrorIs(t, err, ErrNoSpec)
}
