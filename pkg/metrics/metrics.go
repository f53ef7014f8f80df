package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StorageOperationsTotal tracks facade calls by operation and outcome
	// (ok, absent, error)
	StorageOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_storage_operations_total",
			Help: "Total number of storage operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// StorageErrorsTotal tracks classified errors by operation and kind
	StorageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_storage_errors_total",
			Help: "Total number of classified storage errors",
		},
		[]string{"operation", "kind"},
	)

	// MultipartPartsTotal tracks successfully uploaded multipart parts
	MultipartPartsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strata_multipart_parts_total",
			Help: "Total number of multipart parts uploaded",
		},
	)

	// KVOperationsTotal tracks key-value adapter calls by operation
	KVOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_kv_operations_total",
			Help: "Total number of key-value store operations",
		},
		[]string{"operation"},
	)
)

// init registers all metrics with the default prometheus registry
func init() {
	prometheus.MustRegister(
		StorageOperationsTotal,
		StorageErrorsTotal,
		MultipartPartsTotal,
		KVOperationsTotal,
	)
}

// RecordKVOperation increments the key-value operations counter
func RecordKVOperation(operation string) {
	KVOperationsTotal.WithLabelValues(operation).Inc()
}
