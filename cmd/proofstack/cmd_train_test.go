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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferl-ai/proofstack/cmd/proofstack/config"
	"github.com/saferl-ai/proofstack/services/api"
)

const fakeTrainerScript = `#!/bin/sh
out=""
algo=""
env=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift 2 ;;
    --algo) algo="$2"; shift 2 ;;
    --env) env="$2"; shift 2 ;;
    *) shift ;;
  esac
done
mkdir -p "$out"
touch "$out/${algo}_$(echo "$env" | tr 'A-Z' 'a-z' | tr '-' '_').zip"
`

func TestModelFileName(t *testing.T) {
	assert.Equal(t, "ppo_cartpole_v1.zip", modelFileName("ppo", "CartPole-v1"))
	assert.Equal(t, "sac_lunarlander_v2.zip", modelFileName("sac", "LunarLander-v2"))
}

func TestExecTrainerRunsCommand(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "trainer.sh")
	require.NoError(t, os.WriteFile(script, []byte(fakeTrainerScript), 0755))

	trainer := &execTrainer{command: script}
	modelPath, err := trainer.Train(context.Background(), api.TrainRequest{
		Algo:      "ppo",
		Env:       "CartPole-v1",
		Timesteps: 100,
		OutputDir: filepath.Join(dir, "models"),
	})
	require.NoError(t, err)
	assert.FileExists(t, modelPath)
	assert.Equal(t, "ppo_cartpole_v1.zip", filepath.Base(modelPath))
}

func TestExecTrainerMissingModelFile(t *testing.T) {
	trainer := &execTrainer{command: "true"}
	_, err := trainer.Train(context.Background(), api.TrainRequest{
		Algo:      "ppo",
		Env:       "CartPole-v1",
		Timesteps: 100,
		OutputDir: t.TempDir(),
	})
	assert.ErrorContains(t, err, "model file")
}

func TestNewExecTrainerRequiresCommand(t *testing.T) {
	saved := config.Global.Trainer
	t.Cleanup(func() { config.Global.Trainer = saved })

	config.Global.Trainer.Command = ""
	_, err := newExecTrainer()
	assert.ErrorContains(t, err, "no trainer configured")

	config.Global.Trainer.Command = "/usr/bin/train"
	trainer, err := newExecTrainer()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/train", trainer.command)
}

func TestCommandTreeRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "train", "bundle", "serve", "cache"} {
		assert.True(t, names[want], want)
	}
}
