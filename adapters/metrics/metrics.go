// Package metrics provides Prometheus metrics collection for layrd.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for layrd.
type Collector struct {
	// Query metrics
	QueriesTotal    *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec
	QueriesInFlight prometheus.Gauge

	// Protocol metrics
	VersionMismatches prometheus.Counter

	// Auth metrics
	AuthFailures *prometheus.CounterVec

	// Registry metrics
	RegistryComponents prometheus.Gauge

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a new metrics collector with all metrics registered.
func New() *Collector {
	return &Collector{
		// Query metrics
		QueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "queries_total",
				Help:      "Total number of queries executed",
			},
			[]string{"query", "status"},
		),
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "layr",
				Name:      "query_duration_seconds",
				Help:      "Query execution duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query"},
		),
		QueriesInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "layr",
				Name:      "queries_in_flight",
				Help:      "Number of queries currently being executed",
			},
		),

		// Protocol metrics
		VersionMismatches: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "version_mismatches_total",
				Help:      "Total number of requests rejected for a protocol version mismatch",
			},
		),

		// Auth metrics
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "auth_failures_total",
				Help:      "Total number of authentication failures",
			},
			[]string{"reason"},
		),

		// Registry metrics
		RegistryComponents: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "layr",
				Name:      "registry_components",
				Help:      "Number of components registered in the served registry",
			},
		),

		// Config metrics
		ConfigReloads: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "layr",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "queries_total",
				Help:      "Total number of queries executed",
			},
			[]string{"query", "status"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "layr",
				Name:      "query_duration_seconds",
				Help:      "Query execution duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query"},
		),
		QueriesInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "layr",
				Name:      "queries_in_flight",
				Help:      "Number of queries currently being executed",
			},
		),
		VersionMismatches: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "version_mismatches_total",
				Help:      "Total number of requests rejected for a protocol version mismatch",
			},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "auth_failures_total",
				Help:      "Total number of authentication failures",
			},
			[]string{"reason"},
		),
		RegistryComponents: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "layr",
				Name:      "registry_components",
				Help:      "Number of components registered in the served registry",
			},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "layr",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "layr",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}
