// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api exposes the proof pipeline over REST: project init,
// train delegation, bundle generation, bundle retrieval, and safety
// spec management.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/saferl-ai/proofstack/services/attestation"
	"github.com/saferl-ai/proofstack/services/pipeline"
	"github.com/saferl-ai/proofstack/services/proofcache"
	"github.com/saferl-ai/proofstack/services/prover"
	"github.com/saferl-ai/proofstack/services/specgen"
)

// Trainer runs an RL training job. The CLI wires an exec-based
// implementation; the API returns 503 when none is configured.
type Trainer interface {
	Train(ctx context.Context, req TrainRequest) (modelPath string, err error)
}

// Deps are the collaborators behind the handlers.
type Deps struct {
	Cache   *proofcache.Cache
	Bundles *attestation.Builder

	// NewProver builds a prover client per bundle request; mock
	// selects the offline client.
	NewProver func(mock bool) (prover.Client, error)

	// WorkDir holds pipeline scratch output (lean_output,
	// guard_output).
	WorkDir string

	// SpecsDir receives specs created via POST /v1/spec.
	SpecsDir string

	Trainer Trainer
	Logger  *slog.Logger
}

// Handlers carries the HTTP handler methods.
type Handlers struct {
	deps Deps
}

// NewHandlers validates deps and builds the handler set.
func NewHandlers(deps Deps) (*Handlers, error) {
	switch {
	case deps.Cache == nil:
		return nil, errors.New("api: proof cache is required")
	case deps.Bundles == nil:
		return nil, errors.New("api: bundle builder is required")
	case deps.NewProver == nil:
		return nil, errors.New("api: prover factory is required")
	case deps.WorkDir == "":
		return nil, errors.New("api: work directory is required")
	case deps.SpecsDir == "":
		return nil, errors.New("api: specs directory is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handlers{deps: deps}, nil
}

// HandleRoot serves API discovery info.
func (h *Handlers) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "SafeRL ProofStack API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"POST /v1/init":            "Initialize a new project",
			"POST /v1/train":           "Train an RL agent",
			"POST /v1/bundle":          "Generate safety bundles",
			"GET /v1/bundle":           "List bundles",
			"GET /v1/bundle/:id":       "Bundle manifest",
			"GET /v1/bundle/:id/:file": "Download a bundle artifact",
			"POST /v1/spec":            "Create a safety specification",
		},
	})
}

// HandleHealth is the liveness check.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleInit scaffolds a new project directory.
func (h *Handlers) HandleInit(c *gin.Context) {
	var req InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	dir := req.OutputDir
	if dir == "" {
		dir = filepath.Join(".", req.EnvName)
	}
	if err := specgen.Scaffold(req.EnvName, dir); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, specgen.ErrInvalidEnvName) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"project_dir": dir,
	})
}

// HandleTrain delegates to the configured trainer.
func (h *Handlers) HandleTrain(c *gin.Context) {
	var req TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if h.deps.Trainer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "no trainer configured"})
		return
	}
	if req.Algo == "" {
		req.Algo = "ppo"
	}
	if req.Env == "" {
		req.Env = "CartPole-v1"
	}
	if req.Timesteps <= 0 {
		req.Timesteps = 10000
	}

	modelPath, err := h.deps.Trainer.Train(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"model_file":  modelPath,
		"algorithm":   req.Algo,
		"environment": req.Env,
		"timesteps":   req.Timesteps,
	})
}

// HandleBundle runs the proof pipeline for the requested algorithms.
func (h *Handlers) HandleBundle(c *gin.Context) {
	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	spec, err := specgen.LoadSafetySpec(req.SpecFile)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	client, err := h.deps.NewProver(req.Mock)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, prover.ErrNoAPIKey) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	p, err := pipeline.New(pipeline.Config{
		Spec:    spec,
		Prover:  client,
		Cache:   h.deps.Cache,
		Bundles: h.deps.Bundles,
		WorkDir: h.deps.WorkDir,
		Logger:  h.deps.Logger,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	opts := pipeline.DefaultOptions()
	if len(req.Algorithms) > 0 {
		opts.Algorithms = req.Algorithms
	}
	if req.MathlibVersion != "" {
		opts.MathlibVersion = req.MathlibVersion
	}
	if req.NoCache {
		opts.ReuseCache = false
		opts.WriteCache = false
	}
	if req.NoCacheWrite {
		opts.WriteCache = false
	}

	results, err := p.Run(c.Request.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, proofcache.ErrInvalidKeyComponent) || errors.Is(err, pipeline.ErrNoAlgorithms) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	resp := BundleResponse{Status: "success"}
	for _, res := range results {
		out := BundleResult{
			Algorithm:    res.Algorithm,
			BundleID:     res.Bundle.ID,
			BundleDir:    res.Bundle.Dir,
			SpecDigest:   res.SpecDigest,
			CacheOutcome: string(res.CacheOutcome),
		}
		if res.CacheWriteErr != nil {
			out.CacheWriteErr = res.CacheWriteErr.Error()
		}
		resp.Results = append(resp.Results, out)
	}
	c.JSON(http.StatusOK, resp)
}

// HandleListBundles returns all bundle manifests, newest first.
func (h *Handlers) HandleListBundles(c *gin.Context) {
	manifests, err := h.deps.Bundles.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bundles": manifests})
}

// HandleGetBundle returns one bundle's manifest.
func (h *Handlers) HandleGetBundle(c *gin.Context) {
	bundle, err := h.deps.Bundles.Load(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, attestation.ErrBundleNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, bundle.Manifest)
}

// HandleGetArtifact streams one artifact from a bundle. Only names
// listed in the manifest are served, which also rules out traversal.
func (h *Handlers) HandleGetArtifact(c *gin.Context) {
	bundle, err := h.deps.Bundles.Load(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, attestation.ErrBundleNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	name := c.Param("file")
	known := name == attestation.ManifestFileName
	for _, f := range bundle.Manifest.Files {
		if f.Name == name {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "artifact not found: " + name})
		return
	}
	c.FileAttachment(filepath.Join(bundle.Dir, name), name)
}

// HandleCreateSpec writes a safety specification file into the specs
// directory.
func (h *Handlers) HandleCreateSpec(c *gin.Context) {
	var req SpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := specgen.ValidateEnvName(req.Environment); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	spec := &specgen.SafetySpec{
		Environment: req.Environment,
		Invariants:  req.Invariants,
		Guard:       req.Guard,
		Lemmas:      req.Lemmas,
	}
	path := filepath.Join(h.deps.SpecsDir, req.Environment+"_spec.yaml")
	if err := spec.Save(path); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"spec_file": path,
	})
}
