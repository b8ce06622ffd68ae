// Copyright 2025 l3montree UG (haftungsbeschraenkt).
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RescoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "taraguard_rescore_duration_seconds",
	Help:    "Duration of threat scenario rescoring in seconds",
	Buckets: prometheus.DefBuckets,
})

var GapEvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "taraguard_gap_evaluation_duration_seconds",
	Help:    "Duration of requirement gap evaluations in seconds",
	Buckets: prometheus.DefBuckets,
})

var ScenarioRevisionAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "taraguard_scenario_revision_amount",
	Help: "The total number of scenario revisions written",
})

var VersionConflictAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "taraguard_version_conflict_amount",
	Help: "The total number of rejected writes due to optimistic concurrency conflicts",
})

var StaleOverrideAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "taraguard_stale_sfop_override_amount",
	Help: "The total number of revisions that changed rating inputs of an overridden SFOP rating",
})

var DanglingLinkAmount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "taraguard_dangling_link_amount",
	Help: "The number of dangling scenario links found by the last consistency check",
})
