// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package specgen turns a user-authored SafetySpec into a Lean4
// specification file. The emitted source doubles as the content
// address for proof caching, so generation is strictly deterministic
// for a given spec and algorithm.
package specgen

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/saferl-ai/proofstack/pkg/validation"
)

// LeanFileName is the canonical name of the emitted specification
// inside an output directory.
const LeanFileName = "safety_proof.lean"

// ErrNoSpec is returned when a Generator is constructed without a
// safety spec.
var ErrNoSpec = errors.New("specgen: safety spec is required")

// LeanSpec is the result of emitting a specification: the on-disk
// path plus the exact source text written there.
type LeanSpec struct {
	Path      string
	Source    string
	Algorithm string
}

// Generator emits Lean4 specifications for one output directory.
// Callers running several algorithms concurrently should use one
// Generator per output directory.
type Generator struct {
	spec   *SafetySpec
	outDir string
	logger *slog.Logger
}

// NewGenerator builds a Generator writing into outDir.
func NewGenerator(spec *SafetySpec, outDir string, logger *slog.Logger) (*Generator, error) {
	if spec == nil {
		return nil, ErrNoSpec
	}
	if outDir == "" {
		return nil, errors.New("specgen: output directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{spec: spec, outDir: outDir, logger: logger}, nil
}

// EmitLean renders the Lean4 specification for the given algorithm and
// writes it to <outDir>/safety_proof.lean. The returned LeanSpec
// carries the source text so callers can digest it without a re-read.
func (g *Generator) EmitLean(algorithm string) (*LeanSpec, error) {
	if err := validation.ValidateAlgorithm(algorithm); err != nil {
		return nil, err
	}

	source, err := g.render(algorithm)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.outDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(g.outDir, LeanFileName)
	if err := os.WriteFile(path, []byte(source), 0640); err != nil {
		return nil, fmt.Errorf("write lean spec: %w", err)
	}

	g.logger.Debug("emitted lean specification",
		"path", path,
		"algorithm", algorithm,
		"bytes", len(source))

	return &LeanSpec{Path: path, Source: source, Algorithm: algorithm}, nil
}

func (g *Generator) render(algorithm string) (string, error) {
	theorem, ok := algorithmTheorems[algorithm]
	if !ok {
		theorem = algorithmTheorems["ppo"]
	}

	data := struct {
		Algorithm      string
		AlgorithmUpper string
		Invariants     string
		Guards         string
		Lemmas         string
		Theorem        string
	}{
		Algorithm:      algorithm,
		AlgorithmUpper: strings.ToUpper(algorithm),
		Invariants:     renderClauses("invariant", g.spec.Invariants, defaultInvariants),
		Guards:         renderClauses("guard", g.spec.Guard, defaultGuards),
		Lemmas:         renderLemmas(g.spec.Lemmas),
		Theorem:        theorem,
	}

	var sb strings.Builder
	if err := leanTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render lean template: %w", err)
	}
	return sb.String(), nil
}

// renderClauses joins the user's propositions into a single Lean
// definition, falling back to the built-in CartPole defaults when the
// spec leaves the section empty.
func renderClauses(kind string, clauses []string, fallback string) string {
	if len(clauses) == 0 {
		return fallback
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- User-specified %ss\n", kind)
	fmt.Fprintf(&sb, "def user_%s", kind)
	if kind == "guard" {
		sb.WriteString(" (σ : State) (a : Action) : Prop :=\n")
	} else {
		sb.WriteString(" (σ : State) : Prop :=\n")
	}
	for i, clause := range clauses {
		sb.WriteString("  " + clause)
		if i < len(clauses)-1 {
			sb.WriteString(" ∧")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderLemmas(lemmas []string) string {
	if len(lemmas) == 0 {
		return defaultLemmas
	}
	var sb strings.Builder
	sb.WriteString("-- User-specified lemmas\n")
	for i, lemma := range lemmas {
		fmt.Fprintf(&sb, "lemma user_lemma_%d : %s := by\n  sorry", i+1, lemma)
		if i < len(lemmas)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// WriteProof splices a generated proof into the Lean file at path.
// Every `sorry` placeholder is replaced with the proof body; if the
// file carries no placeholder the proof is appended instead.
func WriteProof(path, proof string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read lean spec %s: %w", path, err)
	}
	source := string(data)
	if strings.Contains(source, "sorry") {
		source = strings.ReplaceAll(source, "sorry", proof)
	} else {
		source += "\n\n-- Generated proof:\n" + proof + "\n"
	}
	if err := os.WriteFile(path, []byte(source), 0640); err != nil {
		return fmt.Errorf("write proof to %s: %w", path, err)
	}
	return nil
}
