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
	"github.com/saferl-ai/proofstack/services/api"
	"github.com/saferl-ai/proofstack/services/prover"
)

// runServe starts the REST API server and blocks until interrupted.
func runServe(cmd *cobra.Command, args []string) {
	logger := newLogger("api")
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := openCache(logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}
	defer cache.Close()

	bundles, err := newBundleBuilder(logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}

	// The exec trainer is optional for serving; /v1/train returns 503
	// without one.
	var trainer api.Trainer
	if t, err := newExecTrainer(); err == nil {
		trainer = t
	}

	handlers, err := api.NewHandlers(api.Deps{
		Cache:   cache,
		Bundles: bundles,
		NewProver: func(mock bool) (prover.Client, error) {
			return newProverClient(mock || mockProver, logger.Slog())
		},
		WorkDir:  config.ExpandPath(config.Global.Paths.WorkDir),
		SpecsDir: config.ExpandPath(config.Global.Paths.SpecsDir),
		Trainer:  trainer,
		Logger:   logger.Slog(),
	})
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}

	serverCfg := api.DefaultServerConfig()
	if config.Global.Server.ListenAddr != "" {
		serverCfg.Addr = config.Global.Server.ListenAddr
	}
	if listenAddr != "" {
		serverCfg.Addr = listenAddr
	}

	server, err := api.NewServer(serverCfg, handlers, logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}

	ux.Infof("proofstack API listening on %s", serverCfg.Addr)
	if err := server.Run(ctx); err != nil {
		ux.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}
