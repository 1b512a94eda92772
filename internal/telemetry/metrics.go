// internal/telemetry/metrics.go

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache metrics, labeled by resource kind.
var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityscout_cache_hits_total",
		Help: "Fresh batches served from the store without an upstream call.",
	}, []string{"kind"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityscout_cache_misses_total",
		Help: "Lookups that found no stored batch.",
	}, []string{"kind"})

	StaleEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityscout_cache_stale_evictions_total",
		Help: "Batches deleted because they outlived their TTL.",
	}, []string{"kind"})
)

// Upstream metrics, labeled by provider.
var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityscout_upstream_requests_total",
		Help: "Fetches issued to upstream providers.",
	}, []string{"provider"})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityscout_upstream_errors_total",
		Help: "Upstream fetches that failed or timed out.",
	}, []string{"provider"})
)
