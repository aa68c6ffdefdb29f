// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/saferl-ai/proofstack/cmd/proofstack/config"
	"github.com/saferl-ai/proofstack/pkg/logging"
	"github.com/saferl-ai/proofstack/services/attestation"
	"github.com/saferl-ai/proofstack/services/proofcache"
	"github.com/saferl-ai/proofstack/services/prover"
)

// newLogger builds the CLI logger from config plus the --verbose flag.
func newLogger(service string) *logging.Logger {
	level := logging.LevelInfo
	switch config.Global.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	if verboseLogs {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  config.Global.Logging.Dir,
		Service: service,
		JSON:    config.Global.Logging.JSON,
	})
}

// openCache builds the proof cache from the configured backend.
func openCache(logger *slog.Logger) (*proofcache.Cache, error) {
	cfg := proofcache.Config{
		Dir:        config.ExpandPath(config.Global.Cache.Dir),
		Backend:    config.Global.Cache.Backend,
		SyncWrites: config.Global.Cache.SyncWrites,
		Logger:     logger,
	}
	cache, err := proofcache.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("open proof cache: %w", err)
	}
	return cache, nil
}

// newProverClient builds the prover, honoring --mock.
func newProverClient(mock bool, logger *slog.Logger) (prover.Client, error) {
	if mock {
		return prover.NewMockClient(), nil
	}
	key, err := prover.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	cfg := prover.DefaultFireworksConfig()
	cfg.APIKey = key
	cfg.Logger = logger
	if config.Global.Prover.Model != "" {
		cfg.Model = config.Global.Prover.Model
	}
	if config.Global.Prover.BaseURL != "" {
		cfg.BaseURL = config.Global.Prover.BaseURL
	}
	if config.Global.Prover.MaxTokens > 0 {
		cfg.MaxTokens = config.Global.Prover.MaxTokens
	}
	if config.Global.Prover.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = config.Global.Prover.RequestsPerSecond
	}
	if config.Global.Prover.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(config.Global.Prover.TimeoutSeconds) * time.Second
	}
	return prover.NewFireworksClient(cfg)
}

// newBundleBuilder builds the attestation builder at the configured
// bundle directory.
func newBundleBuilder(logger *slog.Logger) (*attestation.Builder, error) {
	return attestation.NewBuilder(config.ExpandPath(config.Global.Paths.BundleDir), logger)
}
