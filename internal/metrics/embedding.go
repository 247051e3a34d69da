package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding metrics are labelled by handle, the embedding name a request
// selects, so two handles sharing one provider model stay distinguishable.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osvector",
			Name:      "embedding_requests_total",
			Help:      "Embedding provider requests by handle and outcome",
		},
		[]string{"handle", "provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "osvector",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"handle", "provider", "model"},
	)

	EmbeddingBatchTexts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "osvector",
			Name:      "embedding_request_texts",
			Help:      "Texts sent per embedding provider request",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"handle"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osvector",
			Name:      "embedding_tokens_total",
			Help:      "Embedding tokens consumed by handle",
		},
		[]string{"handle", "provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osvector",
			Name:      "embedding_errors_total",
			Help:      "Embedding provider errors by handle and kind",
		},
		[]string{"handle", "provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osvector",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by handle",
		},
		[]string{"handle", "result"}, // result: hit, miss
	)
)

// EmbeddingLabels identifies the embedder a sample belongs to.
type EmbeddingLabels struct {
	Handle   string
	Provider string
	Model    string
}

// ObserveEmbeddingRequest records one successful provider request.
func ObserveEmbeddingRequest(l EmbeddingLabels, texts int, d time.Duration, promptTokens, totalTokens int) {
	EmbeddingRequestsTotal.WithLabelValues(l.Handle, l.Provider, l.Model, "success").Inc()
	EmbeddingRequestDuration.WithLabelValues(l.Handle, l.Provider, l.Model).Observe(d.Seconds())
	EmbeddingBatchTexts.WithLabelValues(l.Handle).Observe(float64(texts))
	if totalTokens > 0 {
		EmbeddingTokensTotal.WithLabelValues(l.Handle, l.Provider, l.Model, "prompt").Add(float64(promptTokens))
		EmbeddingTokensTotal.WithLabelValues(l.Handle, l.Provider, l.Model, "total").Add(float64(totalTokens))
	}
}

// ObserveEmbeddingError records one failed provider request.
func ObserveEmbeddingError(l EmbeddingLabels, errorType string) {
	EmbeddingRequestsTotal.WithLabelValues(l.Handle, l.Provider, l.Model, "error").Inc()
	EmbeddingErrorsTotal.WithLabelValues(l.Handle, l.Provider, l.Model, errorType).Inc()
}

var registerEmbeddingOnce sync.Once

// RegisterEmbeddingMetrics registers embedding metrics with the default
// registry. Repeated calls are no-ops.
func RegisterEmbeddingMetrics() {
	registerEmbeddingOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingBatchTexts,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
		)
	})
}
