// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	// defaultBaseURL points the OpenAI-compatible client at the
	// Fireworks inference endpoint.
	defaultBaseURL = "https://api.fireworks.ai/inference/v1"

	defaultModel = "fireworks/deepseek-prover-v2"

	systemPrompt = "You are DeepSeek Prover. Produce Lean4 proofs; no natural-language."

	apiKeyEnv    = "FIREWORKS_API_KEY"
	apiKeySecret = "/run/secrets/fireworks_api_key"
)

// FireworksConfig configures the remote prover client.
type FireworksConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int

	// RequestsPerSecond throttles outbound calls. Zero disables the
	// limiter.
	RequestsPerSecond float64

	Timeout time.Duration
	Logger  *slog.Logger
}

// DefaultFireworksConfig returns production defaults; the API key is
// still resolved separately via ResolveAPIKey.
func DefaultFireworksConfig() FireworksConfig {
	return FireworksConfig{
		BaseURL:           defaultBaseURL,
		Model:             defaultModel,
		MaxTokens:         2048,
		RequestsPerSecond: 1,
		Timeout:           120 * time.Second,
	}
}

// ResolveAPIKey looks up the Fireworks credential: the environment
// variable first, then the container secrets mount.
func ResolveAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(apiKeyEnv)); key != "" {
		return key, nil
	}
	data, err := os.ReadFile(apiKeySecret)
	if err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: set %s or mount %s", ErrNoAPIKey, apiKeyEnv, apiKeySecret)
}

// FireworksClient calls the DeepSeek Prover model hosted on Fireworks
// through the OpenAI-compatible chat completions API.
type FireworksClient struct {
	api     *openai.Client
	model   string
	maxTok  int
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// NewFireworksClient validates the config and builds the client.
func NewFireworksClient(cfg FireworksConfig) (*FireworksClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &FireworksClient{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		maxTok:  cfg.MaxTokens,
		limiter: limiter,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Name implements Client.
func (c *FireworksClient) Name() string { return c.model }

// Complete asks the prover model for a Lean4 proof of leanSource.
// Upstream failures degrade to FallbackProof so a flaky inference
// endpoint never blocks a pipeline run; the substitution is logged and
// counted.
func (c *FireworksClient) Complete(ctx context.Context, leanSource string) (string, error) {
	if strings.TrimSpace(leanSource) == "" {
		return "", ErrEmptySpec
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   c.maxTok,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: leanSource},
		},
	})
	requestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			requestsTotal.WithLabelValues("error").Inc()
			return "", ctxErr
		}
		c.logger.Warn("prover request failed, using fallback proof",
			"model", c.model, "error", err)
		requestsTotal.WithLabelValues("fallback").Inc()
		return FallbackProof, nil
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("prover returned no choices, using fallback proof", "model", c.model)
		requestsTotal.WithLabelValues("fallback").Inc()
		return FallbackProof, nil
	}

	proof := extractProof(resp.Choices[0].Message.Content)
	if proof == "" {
		c.logger.Warn("prover returned empty proof, using fallback proof", "model", c.model)
		requestsTotal.WithLabelValues("fallback").Inc()
		return FallbackProof, nil
	}

	requestsTotal.WithLabelValues("ok").Inc()
	return proof, nil
}

// extractProof strips markdown code fences the model sometimes wraps
// around the Lean output.
func extractProof(content string) string {
	content = strings.TrimSpace(content)
	if after, found := strings.CutPrefix(content, "```lean"); found {
		content = after
	} else if after, found := strings.CutPrefix(content, "```"); found {
		content = after
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
