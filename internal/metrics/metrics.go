// Package metrics provides Prometheus metrics for marks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts collection operations by outcome.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marks",
			Name:      "operations_total",
			Help:      "Total number of collection operations",
		},
		[]string{"operation", "status"},
	)

	// PersistDuration measures slot writes.
	PersistDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marks",
			Name:      "persist_duration_seconds",
			Help:      "Duration of slot writes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// BookmarksStored tracks the size of the collection.
	BookmarksStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "marks",
			Name:      "bookmarks_stored",
			Help:      "Number of bookmarks currently in the collection",
		},
	)

	// CapturesTotal counts capture attempts by trigger and result.
	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marks",
			Name:      "captures_total",
			Help:      "Total number of capture attempts",
		},
		[]string{"trigger", "result"},
	)

	// ImportedTotal counts records merged through imports.
	ImportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marks",
			Name:      "imported_records_total",
			Help:      "Total number of records merged by imports",
		},
	)

	// StoreConnectionStatus tracks the storage backend status.
	StoreConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "marks",
			Name:      "store_connection_status",
			Help:      "Store connection status (1 = connected, 0 = disconnected)",
		},
	)
)

// RecordOperation records one collection operation.
func RecordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordPersist records a slot write duration in seconds.
func RecordPersist(seconds float64) {
	PersistDuration.Observe(seconds)
}

// SetStored sets the collection size.
func SetStored(n int) {
	BookmarksStored.Set(float64(n))
}

// RecordCapture records a capture attempt.
func RecordCapture(trigger, result string) {
	CapturesTotal.WithLabelValues(trigger, result).Inc()
}

// RecordImported adds n merged records.
func RecordImported(n int) {
	ImportedTotal.Add(float64(n))
}

// SetStoreConnected sets the store status to connected.
func SetStoreConnected() {
	StoreConnectionStatus.Set(1)
}

// SetStoreDisconnected sets the store status to disconnected.
func SetStoreDisconnected() {
	StoreConnectionStatus.Set(0)
}
