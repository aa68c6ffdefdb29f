// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig listens on :8080. Write timeout is generous
// because a bundle request runs the whole pipeline inline.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    10 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Server is the proofstack REST server.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	cfg    ServerConfig
	logger *slog.Logger
}

// NewServer builds the router with recovery, request logging, the /v1
// API group, and the Prometheus endpoint.
func NewServer(cfg ServerConfig, handlers *Handlers, logger *slog.Logger) (*Server, error) {
	if handlers == nil {
		return nil, errors.New("api: handlers are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg = DefaultServerConfig()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	v1 := engine.Group("/v1")
	RegisterRoutes(v1, handlers)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger,
		http: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}, nil
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves until ctx is cancelled, then drains connections within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// requestLogger emits one structured line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client", c.ClientIP())
	}
}
