// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

// InitRequest creates a new project scaffold.
type InitRequest struct {
	EnvName   string `json:"env_name" binding:"required"`
	OutputDir string `json:"output_dir"`
}

// TrainRequest delegates a training run to the configured trainer.
type TrainRequest struct {
	Algo      string `json:"algo"`
	Timesteps int    `json:"timesteps"`
	Env       string `json:"env"`
	OutputDir string `json:"output_dir"`
}

// BundleRequest runs the proof pipeline and produces compliance
// bundles.
type BundleRequest struct {
	SpecFile       string   `json:"spec_file" binding:"required"`
	Algorithms     []string `json:"algorithms"`
	MathlibVersion string   `json:"mathlib_version"`
	Mock           bool     `json:"mock"`
	NoCache        bool     `json:"no_cache"`
	NoCacheWrite   bool     `json:"no_cache_write"`
}

// SpecRequest creates a safety specification file.
type SpecRequest struct {
	Environment string   `json:"environment" binding:"required"`
	Invariants  []string `json:"invariants" binding:"required,min=1"`
	Guard       []string `json:"guard"`
	Lemmas      []string `json:"lemmas"`
}

// BundleResult is the per-algorithm outcome in a BundleResponse.
type BundleResult struct {
	Algorithm     string `json:"algorithm"`
	BundleID      string `json:"bundle_id"`
	BundleDir     string `json:"bundle_dir"`
	SpecDigest    string `json:"spec_digest"`
	CacheOutcome  string `json:"cache_outcome"`
	CacheWriteErr string `json:"cache_write_error,omitempty"`
}

// BundleResponse is returned from POST /v1/bundle.
type BundleResponse struct {
	Status  string         `json:"status"`
	Results []BundleResult `json:"results"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
