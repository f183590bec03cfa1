// ABOUTME: Prometheus collectors for the tenant router and HTTP API
// ABOUTME: Collectors register against an injected Registerer so tests stay isolated

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "benotes"

// Metrics holds all Prometheus metrics for benotes.
type Metrics struct {
	TenantStoresOpen     prometheus.Gauge
	TenantStoreOpens     prometheus.Counter
	TenantStoreResets    prometheus.Counter
	TenantRegistrations  *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPRequestDurations *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TenantStoresOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "stores_open",
			Help:      "Number of tenant store handles currently cached.",
		}),
		TenantStoreOpens: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "store_opens_total",
			Help:      "Total number of tenant stores opened from disk.",
		}),
		TenantStoreResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "store_resets_total",
			Help:      "Total number of tenant stores deleted by reset.",
		}),
		TenantRegistrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "registrations_total",
			Help:      "Tenant registration attempts by outcome.",
		}, []string{"outcome"}), // outcome: created, existing, error
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "method", "status"}),
		HTTPRequestDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// NewNop returns collectors bound to a private registry that nothing scrapes.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
