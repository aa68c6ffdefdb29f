// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saferl-ai/proofstack/cmd/proofstack/config"
	"github.com/saferl-ai/proofstack/pkg/ux"
	"github.com/saferl-ai/proofstack/services/pipeline"
	"github.com/saferl-ai/proofstack/services/proofcache"
	"github.com/saferl-ai/proofstack/services/specgen"
)

// runBundle is the one-command flow: emit Lean, prove (through the
// cache), generate guard code, and write compliance bundles.
func runBundle(cmd *cobra.Command, args []string) {
	logger := newLogger("cli")
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spec, err := specgen.LoadSafetySpec(specFile)
	if err != nil {
		ux.Errorf("Failed to load safety spec: %v", err)
		os.Exit(1)
	}

	cache, err := openCache(logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}
	defer cache.Close()

	client, err := newProverClient(mockProver, logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}

	bundles, err := newBundleBuilder(logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}

	p, err := pipeline.New(pipeline.Config{
		Spec:    spec,
		Prover:  client,
		Cache:   cache,
		Bundles: bundles,
		WorkDir: config.ExpandPath(config.Global.Paths.WorkDir),
		Logger:  logger.Slog(),
	})
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}

	opts := pipeline.Options{
		Algorithms:     algorithms,
		MathlibVersion: mathlibVersion,
		ReuseCache:     !noCache,
		WriteCache:     !noCache && !noCacheWrite,
	}

	spinner := ux.NewSpinner("Generating proofs and compliance bundles...")
	spinner.Start()
	results, err := p.Run(ctx, opts)
	spinner.Stop()
	if err != nil {
		ux.Errorf("Bundle generation failed: %v", err)
		os.Exit(1)
	}

	for _, res := range results {
		switch res.CacheOutcome {
		case proofcache.OutcomeHit:
			ux.Infof("[%s] cache hit: reused proof sketch", res.Algorithm)
		case proofcache.OutcomeDegraded:
			ux.Warnf("[%s] cache degraded: storage unreadable, generated new proof", res.Algorithm)
		default:
			ux.Infof("[%s] cache miss: generated new proof", res.Algorithm)
		}
		if res.CacheWriteErr != nil {
			ux.Warnf("[%s] proof cache write failed: %v", res.Algorithm, res.CacheWriteErr)
		}
		ux.Successf("[%s] bundle %s written to %s", res.Algorithm, res.Bundle.ID, res.Bundle.Dir)
	}
}
