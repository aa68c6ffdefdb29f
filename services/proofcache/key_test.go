// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	digest := ComputeSpecDigest("spec")
	key := NewKey(digest, "ppo", "v2024.1")
	assert.Equal(t, digest+"_ppo_v2024.1", key.String())
}

// TestKeyStringUnambiguous: component validators forbid underscores,
// so two distinct keys can never collide on the flat encoding.
func TestKeyStringUnambiguous(t *testing.T) {
	digest := ComputeSpecDigest("spec")
	a := NewKey(digest, "ppo", "v1")
	b := NewKey(digest, "pp", "o-v1")

	require.NoError(t, a.Validate())
	// "o-v1" is a valid version but "pp" + "o-v1" encodes differently
	// from "ppo" + "v1".
	require.NoError(t, b.Validate())
	assert.NotEqual(t, a.String(), b.String())
}

func TestKeyValidate(t *testing.T) {
	digest := ComputeSpecDigest("spec")

	assert.NoError(t, NewKey(digest, "ppo", "v2024.1").Validate())
	assert.NoError(t, NewKey(digest, "sac", "latest").Validate())

	assert.ErrorIs(t, NewKey("", "ppo", "v1").Validate(), ErrInvalidKeyComponent)
	assert.ErrorIs(t, NewKey(digest, "", "v1").Validate(), ErrInvalidKeyComponent)
	assert.ErrorIs(t, NewKey(digest, "ppo", "").Validate(), ErrInvalidKeyComponent)
	assert.ErrorIs(t, NewKey("not-hex", "ppo", "v1").Validate(), ErrInvalidKeyComponent)
}
