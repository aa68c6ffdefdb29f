// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package specgen

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SafetySpec is the user-authored safety constraint document: the
// invariants that must always hold, the guard conditions checked
// before actions, and the lemmas available to the prover.
type SafetySpec struct {
	Environment string   `yaml:"environment" json:"environment"`
	Invariants  []string `yaml:"invariants" json:"invariants"`
	Guard       []string `yaml:"guard" json:"guard"`
	Lemmas      []string `yaml:"lemmas" json:"lemmas"`
}

// DefaultSafetySpec returns the CartPole example spec used by
// `proofstack init`.
func DefaultSafetySpec() *SafetySpec {
	return &SafetySpec{
		Environment: "CartPole-v1",
		Invariants: []string{
			"|σ.cart_position| ≤ 2.4",
			"|σ.pole_angle| ≤ 0.2095",
		},
		Guard: []string{
			"|σ.cart_position| ≤ 2.3",
			"|σ.pole_angle| ≤ 0.2",
			"|a.force| ≤ 10.0",
		},
		Lemmas: []string{},
	}
}

// LoadSafetySpec reads a SafetySpec from a YAML file.
func LoadSafetySpec(path string) (*SafetySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read safety spec %s: %w", path, err)
	}
	var spec SafetySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse safety spec %s: %w", path, err)
	}
	return &spec, nil
}

// Save writes the spec as YAML, creating parent directories as needed.
func (s *SafetySpec) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create spec directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal safety spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("write safety spec %s: %w", path, err)
	}
	return nil
}
