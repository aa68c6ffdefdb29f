// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prover

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts prover completions by outcome. The status
	// label is bounded: ok, fallback, error.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proofstack",
		Subsystem: "prover",
		Name:      "requests_total",
		Help:      "Prover completion requests by outcome.",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "proofstack",
		Subsystem: "prover",
		Name:      "request_duration_seconds",
		Help:      "Latency of prover completion requests.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)
