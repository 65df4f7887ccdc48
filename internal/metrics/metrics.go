// Package metrics provides Prometheus instrumentation for the ledger.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CommandsTotal counts engine commands by operation and outcome.
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "commands_total",
			Help:      "Ledger commands by operation and outcome (ok or error kind).",
		},
		[]string{"operation", "outcome"},
	)

	// ConflictRetriesTotal counts attempts retried after a compare-and-set miss.
	ConflictRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "conflict_retries_total",
			Help:      "Commands retried after a concurrent write conflict.",
		},
		[]string{"operation"},
	)

	// CommandDuration observes end-to-end command latency including retries.
	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "command_duration_seconds",
			Help:      "Ledger command duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ReconcileMismatches reports wallets whose balance disagrees with the ledger.
	ReconcileMismatches = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "reconcile_mismatches",
			Help:      "Wallets found out of balance by the last reconciliation run.",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		CommandsTotal,
		ConflictRetriesTotal,
		CommandDuration,
		ReconcileMismatches,
		HTTPRequestsTotal,
	)
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()/100)+"xx",
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
