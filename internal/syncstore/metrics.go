package syncstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncstore_cache_hits_total",
		Help: "Reads served from a fresh cache entry.",
	}, []string{"kind"})

	misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncstore_cache_misses_total",
		Help: "Reads that went to the gateway.",
	}, []string{"kind"})

	rollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncstore_rollbacks_total",
		Help: "Optimistic mutations rolled back after a gateway failure.",
	}, []string{"kind"})
)
