package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Vector store operation names used as the "op" label.
const (
	OpEnsureIndex = "ensure_index"
	OpIngest      = "ingest"
	OpRefresh     = "refresh"
	OpSearch      = "search"
)

// Vector store Prometheus metrics.
var (
	VectorStoreOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osvector",
			Name:      "vectorstore_operations_total",
			Help:      "Total number of OpenSearch vector store operations",
		},
		[]string{"op", "status"},
	)

	VectorStoreOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "osvector",
			Name:      "vectorstore_operation_duration_seconds",
			Help:      "OpenSearch vector store operation duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"op"},
	)

	VectorStoreDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "osvector",
			Name:      "vectorstore_documents_ingested_total",
			Help:      "Total documents bulk-indexed into OpenSearch",
		},
	)
)

var vsMetricsRegistered bool

// RegisterVectorStoreMetrics registers vector store metrics. Must be called once from main.
func RegisterVectorStoreMetrics() {
	if vsMetricsRegistered {
		return
	}
	prometheus.MustRegister(VectorStoreOpsTotal)
	prometheus.MustRegister(VectorStoreOpDuration)
	prometheus.MustRegister(VectorStoreDocumentsTotal)
	vsMetricsRegistered = true
}

// ObserveVectorStoreOp records the outcome and latency of one operation.
func ObserveVectorStoreOp(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	VectorStoreOpsTotal.WithLabelValues(op, status).Inc()
	VectorStoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
