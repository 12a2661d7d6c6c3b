package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vodhub_catalog_builds_total",
			Help: "Total number of catalog rebuilds by outcome.",
		},
		[]string{"outcome"}, // success, failure
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vodhub_artifact_cache_lookups_total",
			Help: "Derived artifact cache lookups by result.",
		},
		[]string{"result"}, // hit, miss, stale
	)

	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vodhub_conversions_total",
			Help: "External converter invocations by operation and outcome.",
		},
		[]string{"operation", "outcome"}, // outcome: success, failure
	)

	SweepRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vodhub_sweep_removed_total",
			Help: "Derived artifacts removed by the retention sweeper.",
		},
	)
)
