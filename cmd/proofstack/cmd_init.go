// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saferl-ai/proofstack/pkg/ux"
	"github.com/saferl-ai/proofstack/services/specgen"
)

// runInit scaffolds a new safety project: a starter safety spec plus
// a README, named after the environment.
func runInit(cmd *cobra.Command, args []string) {
	envName := args[0]
	dir := outputDir
	if dir == "" {
		dir = filepath.Join(".", envName)
	}

	if err := specgen.Scaffold(envName, dir); err != nil {
		ux.Errorf("Failed to initialize project: %v", err)
		os.Exit(1)
	}

	ux.Successf("Project initialized at %s", dir)
	ux.Infof("Edit %s, then run: proofstack bundle --spec %s",
		filepath.Join(dir, specgen.SpecFileName),
		filepath.Join(dir, specgen.SpecFileName))
}
