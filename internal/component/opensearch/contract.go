package opensearch

import (
	"context"

	"github.com/kailas-cloud/osvector/internal/domain"
)

// StoreBuilder constructs a vector store by bulk-ingesting embedded documents.
type StoreBuilder interface {
	FromDocuments(
		ctx context.Context,
		embedder domain.Embedder,
		url, index string,
		docs []domain.Document,
		auth domain.BasicAuth,
	) (domain.VectorStore, error)
}
