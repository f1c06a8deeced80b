// Package metric exposes Prometheus counters for fetches, cache tiers and
// mapping requests. A nil *Metrics is valid and records nothing.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ulancrm"

// Cache tiers
const (
	TierRaw    = "raw"
	TierRecord = "record"
)

// Metrics groups the service counters
type Metrics struct {
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	upstreamFetches *prometheus.CounterVec
	requests        *prometheus.CounterVec
	lookupFailures  *prometheus.CounterVec
}

// New creates the counters and registers them with reg (skipped when reg is nil)
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits by tier.",
		}, []string{"tier"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses by tier.",
		}, []string{"tier"}),
		upstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Upstream vocabulary fetches by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Describe requests by outcome.",
		}, []string{"outcome"}),
		lookupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "secondary_lookup_failures_total",
			Help:      "Failed label lookups for referenced concepts, by kind.",
		}, []string{"kind"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.cacheHits, m.cacheMisses, m.upstreamFetches, m.requests, m.lookupFailures} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// CacheHit records a hit on a tier
func (m *Metrics) CacheHit(tier string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(tier).Inc()
}

// CacheMiss records a miss on a tier
func (m *Metrics) CacheMiss(tier string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(tier).Inc()
}

// UpstreamFetch records an upstream fetch ("ok" or "error")
func (m *Metrics) UpstreamFetch(outcome string) {
	if m == nil {
		return
	}
	m.upstreamFetches.WithLabelValues(outcome).Inc()
}

// Request records a describe request ("ok", "not_found" or "error")
func (m *Metrics) Request(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

// LookupFailure records a degraded secondary lookup
func (m *Metrics) LookupFailure(kind string) {
	if m == nil {
		return
	}
	m.lookupFailures.WithLabelValues(kind).Inc()
}
