// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package specgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// SpecFileName is the safety spec written into a new project.
const SpecFileName = "safety_spec.yaml"

// ErrInvalidEnvName is returned for environment names outside the
// allowed character set.
var ErrInvalidEnvName = errors.New("specgen: invalid environment name")

var envNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]{0,63}$`)

// ValidateEnvName checks a Gymnasium-style environment name such as
// "CartPole-v1".
func ValidateEnvName(name string) error {
	if !envNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidEnvName, name)
	}
	return nil
}

const scaffoldReadme = `# %s Safety Project

Generated by proofstack init.

- safety_spec.yaml: the safety constraint document. Edit the
  invariants, guard conditions, and lemmas for your environment.
- Run "proofstack bundle --spec safety_spec.yaml" to produce a
  compliance bundle.
`

// Scaffold creates a new project directory containing a starter
// safety spec and README for envName. Existing files are not
// overwritten.
func Scaffold(envName, dir string) error {
	if err := ValidateEnvName(envName); err != nil {
		return err
	}
	if dir == "" {
		return errors.New("specgen: project directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	specPath := filepath.Join(dir, SpecFileName)
	if _, err := os.Stat(specPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", specPath)
	}

	spec := DefaultSafetySpec()
	spec.Environment = envName
	if err := spec.Save(specPath); err != nil {
		return err
	}

	readme := fmt.Sprintf(scaffoldReadme, envName)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0640); err != nil {
		return fmt.Errorf("write project readme: %w", err)
	}
	return nil
}
