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

	"github.com/spf13/cobra"

	"github.com/saferl-ai/proofstack/pkg/ux"
)

// runCacheStats prints entry count and total size of the proof cache.
func runCacheStats(cmd *cobra.Command, args []string) {
	logger := newLogger("cli")
	defer logger.Close()

	cache, err := openCache(logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}
	defer cache.Close()

	stats, err := cache.Stats(context.Background())
	if err != nil {
		ux.Errorf("Failed to read cache stats: %v", err)
		os.Exit(1)
	}
	ux.Infof("Proof cache: %d entries, %d bytes", stats.Entries, stats.Bytes)
}

// runCacheClear removes every proof sketch from the cache.
func runCacheClear(cmd *cobra.Command, args []string) {
	logger := newLogger("cli")
	defer logger.Close()

	cache, err := openCache(logger.Slog())
	if err != nil {
		ux.Errorf("%v", err)
		os.Exit(1)
	}
	defer cache.Close()

	if err := cache.Clear(context.Background()); err != nil {
		ux.Errorf("Failed to clear cache: %v", err)
		os.Exit(1)
	}
	ux.Successf("Proof cache cleared")
}
