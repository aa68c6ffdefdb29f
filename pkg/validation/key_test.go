// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		algo    string
		wantErr bool
	}{
		{"ppo", "ppo", false},
		{"sac", "sac", false},
		{"ddpg", "ddpg", false},
		{"custom with hyphen", "td3-bc", false},
		{"custom with digits", "a2c2", false},
		{"empty", "", true},
		{"uppercase", "PPO", true},
		{"leading digit", "3dqn", true},
		{"path traversal", "../ppo", true},
		{"key separator", "ppo_v1", true},
		{"space", "ppo sac", true},
		{"too long", strings.Repeat("a", 33), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlgorithm(tt.algo)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeAlgorithm(t *testing.T) {
	got, err := SanitizeAlgorithm("  PPO ")
	require.NoError(t, err)
	assert.Equal(t, "ppo", got)

	_, err = SanitizeAlgorithm("../etc")
	assert.Error(t, err)
}

func TestValidateSpecDigest(t *testing.T) {
	valid := strings.Repeat("ab12", 16) // 64 hex chars
	assert.NoError(t, ValidateSpecDigest(valid))

	assert.Error(t, ValidateSpecDigest(""))
	assert.Error(t, ValidateSpecDigest("abc123"))                          // too short
	assert.Error(t, ValidateSpecDigest(strings.ToUpper(valid)))            // uppercase
	assert.Error(t, ValidateSpecDigest(strings.Repeat("zz12", 16)))        // non-hex
	assert.Error(t, ValidateSpecDigest(valid+"00"))                        // too long
	assert.Error(t, ValidateSpecDigest("../"+strings.Repeat("ab12", 15))) // traversal
}

func TestValidateMathlibVersion(t *testing.T) {
	assert.NoError(t, ValidateMathlibVersion("v2024.1"))
	assert.NoError(t, ValidateMathlibVersion("latest"))
	assert.NoError(t, ValidateMathlibVersion("4c19a0c9d3f8"))

	assert.Error(t, ValidateMathlibVersion(""))
	assert.Error(t, ValidateMathlibVersion("v2024/1"))
	assert.Error(t, ValidateMathlibVersion(".hidden"))
	assert.Error(t, ValidateMathlibVersion(strings.Repeat("v", 65)))
}

func TestKnownAlgorithms(t *testing.T) {
	for _, algo := range KnownAlgorithms() {
		assert.True(t, IsKnownAlgorithm(algo))
		assert.NoError(t, ValidateAlgorithm(algo))
	}
	assert.False(t, IsKnownAlgorithm("td3"))
}
