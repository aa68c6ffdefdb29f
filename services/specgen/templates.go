// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package specgen

import "text/template"

// leanTemplate is the Lean4 specification skeleton. Emission must stay
// deterministic: the emitted source is the proof cache's content
// address, so no timestamps or environment-dependent text belong here.
var leanTemplate = template.Must(template.New("lean").Parse(`-- SafeRL ProofStack: {{.AlgorithmUpper}} Safety Specification
-- Generated automatically from the safety constraint document

import Mathlib.Data.Real.Basic
import Mathlib.Analysis.NormedSpace.Basic

-- State representation
structure State where
  cart_position : ℝ
  cart_velocity : ℝ
  pole_angle : ℝ
  pole_angular_velocity : ℝ

-- Action representation
structure Action where
  force : ℝ

-- Policy function type
def Policy := State → Action

-- Safety invariants (must always hold)
{{.Invariants}}

-- Guard conditions (checked before actions)
{{.Guards}}

-- Safety lemmas for proof generation
{{.Lemmas}}

-- Main safety theorem for {{.AlgorithmUpper}}
{{.Theorem}}

-- Helper definitions
def safe_action (a : Action) : Prop :=
  |a.force| ≤ 10.0

def invariant (σ : State) : Prop :=
  |σ.cart_position| ≤ 2.4 ∧
  |σ.pole_angle| ≤ 0.2095

-- Proof placeholder
theorem safety_proof : ∀ σ, invariant σ → safe_action (safe_{{.Algorithm}}_policy σ) := by
  sorry
`))

// algorithmTheorems holds the per-algorithm safety theorem stubs.
// Unknown algorithms fall back to the ppo form.
var algorithmTheorems = map[string]string{
	"ppo": `-- PPO-specific safety theorem
theorem safe_ppo_policy : ∀ σ, invariant σ → safe_action (ppo_policy σ) := by
  sorry`,
	"sac": `-- SAC-specific safety theorem
theorem safe_sac_policy : ∀ σ, invariant σ → safe_action (sac_policy σ) := by
  sorry`,
	"ddpg": `-- DDPG-specific safety theorem
theorem safe_ddpg_policy : ∀ σ, invariant σ → safe_action (ddpg_policy σ) := by
  sorry`,
}

const defaultInvariants = `-- Default invariants
def default_invariant (σ : State) : Prop :=
  |σ.cart_position| ≤ 2.4 ∧
  |σ.pole_angle| ≤ 0.2095`

const defaultGuards = `-- Default guards
def default_guard (σ : State) (a : Action) : Prop :=
  |σ.cart_position| ≤ 2.3 ∧
  |σ.pole_angle| ≤ 0.2 ∧
  |a.force| ≤ 10.0`

const defaultLemmas = `-- Default lemmas
lemma position_step_bound : ∀ σ σ', step σ σ' → |σ'.cart_position - σ.cart_position| ≤ 0.1 := by
  sorry

lemma angle_step_preserved : ∀ σ σ', step σ σ' → |σ'.pole_angle| ≤ |σ.pole_angle| + 0.01 := by
  sorry`
