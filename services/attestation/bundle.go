// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package attestation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/saferl-ai/proofstack/services/specgen"
)

// Canonical file names inside a bundle directory.
const (
	ReportFileName     = "attestation.html"
	SBOMFileName       = "sbom.spdx.json"
	ComplianceFileName = "compliance.json"
	GuardFileName      = "guard.c"
	LeanFileName       = "safety_proof.lean"
	HashFileName       = "lean_project.sha256"
	ManifestFileName   = "bundle.json"
)

var (
	// ErrIncompleteInput indicates the builder was given a BuildInput
	// missing a required artifact.
	ErrIncompleteInput = errors.New("attestation: incomplete bundle input")

	// ErrBundleNotFound indicates no bundle exists for the given ID.
	ErrBundleNotFound = errors.New("attestation: bundle not found")
)

// BuildInput gathers everything a bundle attests to.
type BuildInput struct {
	Spec        *specgen.SafetySpec
	LeanSource  string
	GuardSource string
	Algorithm   string
	Prover      string
	SpecDigest  string
	TestResults map[string]TestResult
}

func (in BuildInput) validate() error {
	switch {
	case in.Spec == nil:
		return fmt.Errorf("%w: safety spec", ErrIncompleteInput)
	case in.LeanSource == "":
		return fmt.Errorf("%w: lean source", ErrIncompleteInput)
	case in.GuardSource == "":
		return fmt.Errorf("%w: guard source", ErrIncompleteInput)
	case in.Algorithm == "":
		return fmt.Errorf("%w: algorithm", ErrIncompleteInput)
	case in.SpecDigest == "":
		return fmt.Errorf("%w: spec digest", ErrIncompleteInput)
	}
	return nil
}

// Builder writes compliance bundles under a base directory, one
// UUID-named subdirectory per bundle.
type Builder struct {
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

// NewBuilder creates a Builder rooted at baseDir.
func NewBuilder(baseDir string, logger *slog.Logger) (*Builder, error) {
	if baseDir == "" {
		return nil, errors.New("attestation: base directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("create bundle base directory: %w", err)
	}
	return &Builder{baseDir: baseDir, logger: logger, now: time.Now}, nil
}

// Build assembles a complete bundle and returns its descriptor. Every
// artifact is written before the manifest, so a bundle.json on disk
// implies a complete bundle.
func (b *Builder) Build(in BuildInput) (*Bundle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	dir := filepath.Join(b.baseDir, id)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create bundle directory: %w", err)
	}
	now := b.now().UTC()

	mapperIn := MapperInput{
		LeanPath:    LeanFileName,
		LeanSource:  in.LeanSource,
		GuardPath:   GuardFileName,
		GuardSource: in.GuardSource,
		SBOMPath:    SBOMFileName,
		Algorithm:   in.Algorithm,
		TestResults: in.TestResults,
	}
	report := MapControls(mapperIn, now)

	specYAML, err := yaml.Marshal(in.Spec)
	if err != nil {
		return nil, fmt.Errorf("marshal safety spec: %w", err)
	}
	html, err := RenderReport(mapperIn, in.SpecDigest, in.Prover, string(specYAML), report, now)
	if err != nil {
		return nil, err
	}
	sbom, err := MarshalSBOM(NewSBOM())
	if err != nil {
		return nil, fmt.Errorf("marshal sbom: %w", err)
	}
	complianceJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal compliance report: %w", err)
	}

	leanHash := sha256.Sum256([]byte(in.LeanSource))

	files := map[string][]byte{
		ReportFileName:     []byte(html),
		SBOMFileName:       sbom,
		ComplianceFileName: complianceJSON,
		GuardFileName:      []byte(in.GuardSource),
		LeanFileName:       []byte(in.LeanSource),
		HashFileName:       []byte(hex.EncodeToString(leanHash[:]) + "\n"),
	}

	manifest := Manifest{
		ID:         id,
		Algorithm:  in.Algorithm,
		Prover:     in.Prover,
		SpecDigest: in.SpecDigest,
		CreatedAt:  now,
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data := files[name]
		if err := os.WriteFile(filepath.Join(dir, name), data, 0640); err != nil {
			return nil, fmt.Errorf("write bundle artifact %s: %w", name, err)
		}
		sum := sha256.Sum256(data)
		manifest.Files = append(manifest.Files, BundleFile{
			Name:   name,
			SHA256: hex.EncodeToString(sum[:]),
			Bytes:  int64(len(data)),
		})
	}

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal bundle manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), manifestJSON, 0640); err != nil {
		return nil, fmt.Errorf("write bundle manifest: %w", err)
	}

	b.logger.Info("compliance bundle written",
		"bundle_id", id,
		"algorithm", in.Algorithm,
		"dir", dir,
		"artifacts", len(manifest.Files))

	return &Bundle{ID: id, Dir: dir, Manifest: manifest}, nil
}

// Load reads the manifest of an existing bundle by ID.
func (b *Builder) Load(id string) (*Bundle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, id)
	}
	dir := filepath.Join(b.baseDir, id)
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, id)
		}
		return nil, fmt.Errorf("read bundle manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse bundle manifest: %w", err)
	}
	return &Bundle{ID: manifest.ID, Dir: dir, Manifest: manifest}, nil
}

// List returns the manifests of all complete bundles, newest first.
func (b *Builder) List() ([]Manifest, error) {
	entries, err := os.ReadDir(b.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list bundle directory: %w", err)
	}
	var manifests []Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bundle, err := b.Load(entry.Name())
		if err != nil {
			// Partial or foreign directories are skipped, not fatal.
			continue
		}
		manifests = append(manifests, bundle.Manifest)
	}
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].CreatedAt.After(manifests[j].CreatedAt)
	})
	return manifests, nil
}
