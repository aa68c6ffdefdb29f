// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package guard emits C99 runtime guard code from a safety spec. The
// generated file is compiled into the training harness so the proved
// invariants are also enforced at runtime.
package guard

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/saferl-ai/proofstack/services/specgen"
)

// GuardFileName is the canonical name of the emitted C source inside
// an output directory.
const GuardFileName = "guard.c"

// ErrNoSpec is returned when code generation is attempted without a
// safety spec.
var ErrNoSpec = errors.New("guard: safety spec is required")

var guardTemplate = template.Must(template.New("guard").Parse(`// Runtime Guard Code for SafeRL ProofStack
// Generated from specification hash: {{.SpecHash}}

#include <stdio.h>
#include <stdlib.h>
#include <math.h>
#include <stdbool.h>

// State structure
typedef struct {
    double cart_position;
    double cart_velocity;
    double pole_angle;
    double pole_angular_velocity;
} State;

// Action structure
typedef struct {
    double force;
} Action;

// Constants
#define MAX_POSITION 2.4
#define MAX_ANGLE 0.2095
#define MAX_FORCE 10.0

// Safety predicate
bool safe(const State* state) {
    return fabs(state->cart_position) <= MAX_POSITION &&
           fabs(state->pole_angle) <= MAX_ANGLE;
}

// Guard predicate
bool guard(const State* state, const Action* action) {
    return fabs(state->cart_position) <= MAX_POSITION - 0.1 &&
           fabs(state->pole_angle) <= MAX_ANGLE - 0.01 &&
           fabs(action->force) <= MAX_FORCE;
}

// Runtime guard function
bool runtime_guard(const State* state, const Action* action) {
    if (!guard(state, action)) {
        fprintf(stderr, "Safety guard violation detected!\n");
        return false;
    }
    return true;
}

// Main guard interface
bool check_safety(const State* state, const Action* action) {
    return runtime_guard(state, action);
}
`))

// EmitC renders the runtime guard for spec and writes it to
// <outDir>/guard.c, returning the file path. The header stamps a
// digest of the spec's invariant, guard, and lemma sections so a
// compiled guard can be traced back to the exact constraints it
// enforces.
func EmitC(spec *specgen.SafetySpec, outDir string) (string, error) {
	source, err := Render(spec)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return "", fmt.Errorf("create guard output directory: %w", err)
	}
	path := filepath.Join(outDir, GuardFileName)
	if err := os.WriteFile(path, []byte(source), 0640); err != nil {
		return "", fmt.Errorf("write guard code: %w", err)
	}
	return path, nil
}

// Render returns the C99 guard source for spec without touching disk.
func Render(spec *specgen.SafetySpec) (string, error) {
	if spec == nil {
		return "", ErrNoSpec
	}
	data := struct{ SpecHash string }{SpecHash: SpecHash(spec)}
	var sb strings.Builder
	if err := guardTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render guard template: %w", err)
	}
	return sb.String(), nil
}

// SpecHash digests the constraint sections of spec for the
// traceability stamp. Sections are joined with newlines so reordering
// or moving a clause between sections changes the hash.
func SpecHash(spec *specgen.SafetySpec) string {
	h := sha256.New()
	for _, section := range [][]string{spec.Invariants, spec.Guard, spec.Lemmas} {
		for _, clause := range section {
			h.Write([]byte(clause))
			h.Write([]byte{'\n'})
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
