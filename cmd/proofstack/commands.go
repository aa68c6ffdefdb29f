// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/saferl-ai/proofstack/cmd/proofstack/config"
)

// --- Global Command Variables ---
var (
	specFile       string
	outputDir      string
	algorithms     []string
	mathlibVersion string
	mockProver     bool
	noCache        bool
	noCacheWrite   bool
	verboseLogs    bool

	trainAlgo      string
	trainTimesteps int
	trainEnv       string

	listenAddr string

	rootCmd = &cobra.Command{
		Use:   "proofstack",
		Short: "One-command RL safety proofs and compliance bundles",
		Long: `proofstack turns a safety constraint document into machine-checked
Lean4 proofs, runtime guard code, and a regulator-grade compliance
bundle, with a content-addressed proof cache in between.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Load(); err != nil {
				log.Fatalf("Error loading configuration: %v", err)
			}
		},
	}

	initCmd = &cobra.Command{
		Use:   "init [env_name]",
		Short: "Initialize a new safety project for an environment",
		Args:  cobra.ExactArgs(1),
		Run:   runInit, // Defined in cmd_init.go
	}

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Train an RL agent via the configured external trainer",
		Run:   runTrain, // Defined in cmd_train.go
	}

	bundleCmd = &cobra.Command{
		Use:   "bundle",
		Short: "Generate proofs and a compliance bundle from a safety spec",
		Run:   runBundle, // Defined in cmd_bundle.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the proofstack REST API server",
		Run:   runServe, // Defined in cmd_serve.go
	}

	// --- Proof Cache ---
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the proof sketch cache",
	}
	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show proof cache entry count and size",
		Run:   runCacheStats, // Defined in cmd_cache.go
	}
	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove all entries from the proof cache",
		Run:   runCacheClear, // Defined in cmd_cache.go
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseLogs, "verbose", "v", false, "Enable debug logging")

	initCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Project directory (default ./<env_name>)")

	trainCmd.Flags().StringVar(&trainAlgo, "algo", "ppo", "RL algorithm (ppo, sac, ddpg)")
	trainCmd.Flags().IntVar(&trainTimesteps, "timesteps", 10000, "Training timesteps")
	trainCmd.Flags().StringVar(&trainEnv, "env", "CartPole-v1", "Gymnasium environment name")
	trainCmd.Flags().StringVarP(&outputDir, "output", "o", "./rl", "Model output directory")

	bundleCmd.Flags().StringVar(&specFile, "spec", "safety_spec.yaml", "Safety spec file")
	bundleCmd.Flags().StringSliceVar(&algorithms, "algo", []string{"ppo"}, "Algorithms to prove")
	bundleCmd.Flags().StringVar(&mathlibVersion, "mathlib", "latest", "Mathlib version for cache keys")
	bundleCmd.Flags().BoolVar(&mockProver, "mock", false, "Use the offline mock prover")
	bundleCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the proof cache entirely")
	bundleCmd.Flags().BoolVar(&noCacheWrite, "no-cache-write", false, "Read the cache but store nothing")

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&mockProver, "mock", false, "Serve with the offline mock prover")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(initCmd, trainCmd, bundleCmd, serveCmd, cacheCmd)
}
