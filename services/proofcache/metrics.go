// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

// Lookup outcomes are bounded ("hit", "miss", "degraded") so label
// cardinality stays fixed. Keys never appear as labels.
var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proofcache_lookups_total",
		Help: "Proof cache lookups by outcome",
	}, []string{"outcome"})

	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proofcache_writes_total",
		Help: "Proof cache write attempts by status",
	}, []string{"status"})

	clearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proofcache_clears_total",
		Help: "Proof cache clear operations",
	})
)
