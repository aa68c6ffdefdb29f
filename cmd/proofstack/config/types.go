// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config holds the user-level proofstack configuration loaded
// from ~/.proofstack/proofstack.yaml.
package config

// ProofstackConfig is the top-level configuration document.
type ProofstackConfig struct {
	Cache   CacheConfig   `yaml:"cache"`
	Paths   PathsConfig   `yaml:"paths"`
	Server  ServerConfig  `yaml:"server"`
	Prover  ProverConfig  `yaml:"prover"`
	Trainer TrainerConfig `yaml:"trainer"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig selects the proof cache backend and location.
type CacheConfig struct {
	// Backend is "file" or "badger".
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	// SyncWrites forces fsync on every badger write.
	SyncWrites bool `yaml:"sync_writes"`
}

// PathsConfig locates the working directories. Relative paths are
// resolved against the current directory so projects stay
// self-contained.
type PathsConfig struct {
	WorkDir   string `yaml:"work_dir"`
	BundleDir string `yaml:"bundle_dir"`
	SpecsDir  string `yaml:"specs_dir"`
}

// ServerConfig configures proofstack serve.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// ProverConfig configures the Fireworks prover client.
type ProverConfig struct {
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
}

// TrainerConfig names the external training command that proofstack
// train delegates to. Arguments receive the algorithm, environment,
// timesteps, and output directory as flags.
type TrainerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() ProofstackConfig {
	return ProofstackConfig{
		Cache: CacheConfig{
			Backend: "file",
			Dir:     "~/.proofstack/proof_cache",
		},
		Paths: PathsConfig{
			WorkDir:   ".",
			BundleDir: "attestation_bundle",
			SpecsDir:  "specs",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Prover: ProverConfig{
			MaxTokens:         2048,
			RequestsPerSecond: 1,
			TimeoutSeconds:    120,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.proofstack/logs",
		},
	}
}
