package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cinequest_client",
		Name:      "cache_hits_total",
		Help:      "Gets served from a fresh cache entry.",
	})

	missesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cinequest_client",
		Name:      "cache_misses_total",
		Help:      "Gets that required a network fetch.",
	})

	staleServesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cinequest_client",
		Name:      "cache_stale_serves_total",
		Help:      "Gets served from a stale entry while refreshing in the background.",
	})

	invalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cinequest_client",
		Name:      "cache_invalidations_total",
		Help:      "Entries dropped by namespace invalidation.",
	})

	refreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cinequest_client",
		Name:      "cache_refresh_failures_total",
		Help:      "Background refreshes that gave up after retries.",
	})
)
