// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saferl-ai/proofstack/cmd/proofstack/config"
	"github.com/saferl-ai/proofstack/pkg/ux"
	"github.com/saferl-ai/proofstack/services/api"
)

// execTrainer delegates training to the external command named in the
// config. The trainer contract: it receives --algo, --env,
// --timesteps, and --output flags and writes
// <output>/<algo>_<env_lowercase>.zip on success.
type execTrainer struct {
	command string
	args    []string
}

func newExecTrainer() (*execTrainer, error) {
	if config.Global.Trainer.Command == "" {
		return nil, errors.New("no trainer configured: set trainer.command in ~/.proofstack/proofstack.yaml")
	}
	return &execTrainer{
		command: config.Global.Trainer.Command,
		args:    config.Global.Trainer.Args,
	}, nil
}

// Train implements api.Trainer.
func (t *execTrainer) Train(ctx context.Context, req api.TrainRequest) (string, error) {
	args := append([]string{}, t.args...)
	args = append(args,
		"--algo", req.Algo,
		"--env", req.Env,
		"--timesteps", strconv.Itoa(req.Timesteps),
		"--output", req.OutputDir,
	)

	cmd := exec.CommandContext(ctx, t.command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("trainer %s: %w", t.command, err)
	}

	model := modelFileName(req.Algo, req.Env)
	path := filepath.Join(req.OutputDir, model)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("trainer finished but model file %s not found: %w", path, err)
	}
	return path, nil
}

func modelFileName(algo, env string) string {
	env = strings.ReplaceAll(strings.ToLower(env), "-", "_")
	return fmt.Sprintf("%s_%s.zip", algo, env)
}

// runTrain executes one training job from the command line.
func runTrain(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trainer, err := newExecTrainer()
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}

	ux.Infof("Training %s on %s for %d timesteps", trainAlgo, trainEnv, trainTimesteps)
	modelPath, err := trainer.Train(ctx, api.TrainRequest{
		Algo:      trainAlgo,
		Env:       trainEnv,
		Timesteps: trainTimesteps,
		OutputDir: outputDir,
	})
	if err != nil {
		ux.Errorf("Training failed: %v", err)
		os.Exit(1)
	}
	ux.Successf("Model saved to %s", modelPath)
}
