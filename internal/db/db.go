package db

import (
	"context"
	"time"
)

// Store is the vector index backend facade combining all sub-interfaces.
type Store interface {
	Pinger
	IndexManager
	Bulker
	Searcher
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Refresh(ctx context.Context, name string) error
}

// BulkItem is a single document in a bulk index request.
type BulkItem struct {
	ID     string
	Source map[string]any
}

// Bulker writes documents in bulk.
type Bulker interface {
	BulkIndex(ctx context.Context, index string, items []BulkItem) error
}

// Searcher runs vector similarity queries.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// Connection identifies a cluster and the credentials to reach it.
type Connection struct {
	URL      string
	Username string
	Password string
}

// Opener creates a Store for a connection. Each call yields an independent
// client.
type Opener interface {
	Open(conn Connection) (Store, error)
}

// KVStore provides simple key-value operations (embedding cache backend).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
