// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prover

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientDefaultsToFallback(t *testing.T) {
	mock := NewMockClient()

	proof, err := mock.Complete(context.Background(), "theorem t : True := by sorry")
	require.NoError(t, err)
	assert.Equal(t, FallbackProof, proof)
	assert.Len(t, mock.Calls(), 1)
}

func TestMockClientCannedResponse(t *testing.T) {
	mock := &MockClient{Response: "exact trivial"}

	proof, err := mock.Complete(context.Background(), "spec")
	require.NoError(t, err)
	assert.Equal(t, "exact trivial", proof)
}

func TestMockClientError(t *testing.T) {
	boom := errors.New("boom")
	mock := &MockClient{Err: boom}

	_, err := mock.Complete(context.Background(), "spec")
	assert.ErrorIs(t, err, boom)
}

func TestMockClientEmptySpecRejected(t *testing.T) {
	mock := NewMockClient()

	_, err := mock.Complete(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptySpec)
}

func TestMockClientHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockClient().Complete(ctx, "spec")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFireworksClientRequiresAPIKey(t *testing.T) {
	_, err := NewFireworksClient(FireworksConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewFireworksClientDefaults(t *testing.T) {
	client, err := NewFireworksClient(FireworksConfig{APIKey: "fw-test"})
	require.NoError(t, err)
	assert.Equal(t, defaultModel, client.Name())
}

func TestResolveAPIKeyFromEnv(t *testing.T) {
	t.Setenv(apiKeyEnv, "fw-env-key")

	key, err := ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "fw-env-key", key)
}

func TestResolveAPIKeyMissing(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	_, err := ResolveAPIKey()
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestExtractProof(t *testing.T) {
	cases := map[string]string{
		"simp [h_guard]":                       "simp [h_guard]",
		"```lean\nsimp [h_guard]\n```":         "simp [h_guard]",
		"```\nexact trivial\n```":              "exact trivial",
		"  \n```lean\n  intro h\n  simp\n```": "intro h\n  simp",
	}
	for input, want := range cases {
		assert.Equal(t, want, extractProof(input))
	}
}
