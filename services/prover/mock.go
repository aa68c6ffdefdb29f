// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prover

import (
	"context"
	"strings"
	"sync"
)

// MockClient is an offline prover for --mock runs and tests. It
// returns a canned proof and records every request.
type MockClient struct {
	// Response overrides the returned proof. Empty means FallbackProof.
	Response string
	// Err, when set, is returned from every Complete call.
	Err error

	mu    sync.Mutex
	calls []string
}

// NewMockClient returns a mock that answers with FallbackProof.
func NewMockClient() *MockClient { return &MockClient{} }

// Name implements Client.
func (m *MockClient) Name() string { return "mock" }

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, leanSource string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(leanSource) == "" {
		return "", ErrEmptySpec
	}

	m.mu.Lock()
	m.calls = append(m.calls, leanSource)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return FallbackProof, nil
}

// Calls returns the Lean sources submitted so far.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
