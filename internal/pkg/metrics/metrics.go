// internal/pkg/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Ledger operations by ledger (cart, wishlist), operation and outcome kind
	LedgerOperations *prometheus.CounterVec
	MergeSkipped     *prometheus.CounterVec
	MergeReplayed    *prometheus.CounterVec
	VersionConflicts *prometheus.CounterVec

	OrdersPlaced prometheus.Counter
}

// New creates the collectors without registering them
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		LedgerOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Cart and wishlist operations by outcome",
		}, []string{"ledger", "operation", "outcome"}),
		MergeSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "merge_skipped_items_total",
			Help:      "Guest items skipped while merging",
		}, []string{"ledger"}),
		MergeReplayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "merge_replays_total",
			Help:      "Guest batches recognised as already merged",
		}, []string{"ledger"}),
		VersionConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "version_conflicts_total",
			Help:      "Conditional user writes that lost to a concurrent write",
		}, []string{"ledger"}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders placed",
		}),
	}
}

// Register registers every collector with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LedgerOperations,
		m.MergeSkipped,
		m.MergeReplayed,
		m.VersionConflicts,
		m.OrdersPlaced,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordLedgerOp records the outcome of a cart or wishlist operation. outcome is
// "ok" or an error kind.
func (m *Metrics) RecordLedgerOp(ledgerName, operation, outcome string) {
	if m == nil {
		return
	}
	m.LedgerOperations.WithLabelValues(ledgerName, operation, outcome).Inc()
}

func (m *Metrics) RecordMerge(ledgerName string, skipped int, replayed bool) {
	if m == nil {
		return
	}
	if replayed {
		m.MergeReplayed.WithLabelValues(ledgerName).Inc()
	}
	m.MergeSkipped.WithLabelValues(ledgerName).Add(float64(skipped))
}

func (m *Metrics) RecordVersionConflict(ledgerName string) {
	if m == nil {
		return
	}
	m.VersionConflicts.WithLabelValues(ledgerName).Inc()
}

func (m *Metrics) RecordOrderPlaced() {
	if m == nil {
		return
	}
	m.OrdersPlaced.Inc()
}
