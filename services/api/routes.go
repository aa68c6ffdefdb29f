// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import "github.com/gin-gonic/gin"

// RegisterRoutes wires all proofstack endpoints onto the given group
// (typically /v1).
//
// Endpoints:
//
//	GET  /v1/           - API discovery
//	GET  /v1/health     - Liveness check
//	POST /v1/init       - Initialize a new project
//	POST /v1/train      - Train an RL agent via the configured trainer
//	POST /v1/bundle     - Run the proof pipeline, produce bundles
//	GET  /v1/bundle     - List bundle manifests
//	GET  /v1/bundle/:id - One bundle's manifest
//	GET  /v1/bundle/:id/artifact/:file - Download a bundle artifact
//	POST /v1/spec       - Create a safety specification file
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.GET("/", handlers.HandleRoot)
	rg.GET("/health", handlers.HandleHealth)

	rg.POST("/init", handlers.HandleInit)
	rg.POST("/train", handlers.HandleTrain)

	rg.POST("/bundle", handlers.HandleBundle)
	rg.GET("/bundle", handlers.HandleListBundles)
	rg.GET("/bundle/:id", handlers.HandleGetBundle)
	rg.GET("/bundle/:id/artifact/:file", handlers.HandleGetArtifact)

	rg.POST("/spec", handlers.HandleCreateSpec)
}
