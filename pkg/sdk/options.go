package osvector

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	url      string
	username string
	password string
	index    string

	embedder        Embedder
	numberOfResults int

	engine         string
	spaceType      string
	efSearch       int
	efConstruction int
	m              int
	bulkSize       int

	insecureSkipVerify bool
	requestTimeout     time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOpenSearch sets the cluster URL and basic-auth credentials.
// Empty credentials disable authentication.
func WithOpenSearch(url, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.url = url
		c.username = username
		c.password = password
	})
}

// WithIndex sets the index name.
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithEmbedder sets the text embedding provider. Required for Build and Search.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithNumberOfResults sets how many results Search returns. Default: 4.
func WithNumberOfResults(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.numberOfResults = k
	})
}

// WithEngine selects the k-NN engine (nmslib, faiss, lucene) and space type
// (l2, cosinesimil, innerproduct) used when the index is created.
// Defaults: nmslib, l2.
func WithEngine(engine, spaceType string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engine = engine
		c.spaceType = spaceType
	})
}

// WithHNSW configures HNSW parameters for new indexes.
// Defaults: M=16, EFConstruction=512, EFSearch=512.
func WithHNSW(m, efConstruction, efSearch int) Option {
	return optionFunc(func(c *clientConfig) {
		c.m = m
		c.efConstruction = efConstruction
		c.efSearch = efSearch
	})
}

// WithBulkSize sets the number of documents per bulk request. Default: 500.
func WithBulkSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.bulkSize = n
	})
}

// WithInsecureSkipVerify disables TLS certificate verification, for
// self-signed development clusters.
func WithInsecureSkipVerify() Option {
	return optionFunc(func(c *clientConfig) {
		c.insecureSkipVerify = true
	})
}

// WithRequestTimeout bounds the wait for each cluster response.
func WithRequestTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.requestTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
