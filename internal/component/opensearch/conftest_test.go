package opensearch

import (
	"context"

	"github.com/kailas-cloud/osvector/internal/component"
	"github.com/kailas-cloud/osvector/internal/domain"
)

// buildCall records the arguments of one FromDocuments call.
type buildCall struct {
	embedder domain.Embedder
	url      string
	index    string
	docs     []domain.Document
	auth     domain.BasicAuth
}

// mockBuilder implements StoreBuilder for tests.
type mockBuilder struct {
	calls []buildCall
	err   error
	store *mockVectorStore
}

func (m *mockBuilder) FromDocuments(
	_ context.Context, embedder domain.Embedder, url, index string, docs []domain.Document, auth domain.BasicAuth,
) (domain.VectorStore, error) {
	m.calls = append(m.calls, buildCall{embedder: embedder, url: url, index: index, docs: docs, auth: auth})
	if m.err != nil {
		return nil, m.err
	}
	if m.store == nil {
		m.store = &mockVectorStore{index: index}
	}
	return m.store, nil
}

// mockVectorStore returns the first k of docs.
type mockVectorStore struct {
	index   string
	docs    []domain.Document
	err     error
	queries []string
	ks      []int
}

func (m *mockVectorStore) IndexName() string { return m.index }

func (m *mockVectorStore) SimilaritySearch(_ context.Context, query string, k int) ([]domain.Document, error) {
	m.queries = append(m.queries, query)
	m.ks = append(m.ks, k)
	if m.err != nil {
		return nil, m.err
	}
	return m.docs[:min(k, len(m.docs))], nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1}}, nil
}

func findInput(inputs []component.Input, name string) (component.Input, bool) {
	for _, in := range inputs {
		if in.Name == name {
			return in, true
		}
	}
	return component.Input{}, false
}

func newTestComponent(cfg Config) (*Component, *mockBuilder) {
	mb := &mockBuilder{}
	if cfg.OpenSearchURL == "" {
		cfg.OpenSearchURL = "http://localhost:9200"
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "docs"
	}
	return New(mb, cfg, stubEmbedder{}), mb
}

func manyDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.NewDocument("doc", map[string]any{"i": i})
	}
	return docs
}
