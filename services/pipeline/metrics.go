// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proofstack",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Per-algorithm pipeline runs by status (ok, error).",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "proofstack",
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Duration of per-algorithm pipeline runs.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)
