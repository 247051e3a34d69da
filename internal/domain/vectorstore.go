package domain

import "context"

// BasicAuth is the (username, password) pair sent to the cluster. An empty
// Username disables authentication.
type BasicAuth struct {
	Username string
	Password string
}

// VectorStore is a built index that answers similarity queries.
type VectorStore interface {
	IndexName() string
	SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error)
}
