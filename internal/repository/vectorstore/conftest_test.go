package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/osvector/internal/db"
	"github.com/kailas-cloud/osvector/internal/domain"
)

// mockStore implements db.Store for tests.
type mockStore struct {
	pingFn        func(ctx context.Context) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	refreshFn     func(ctx context.Context, name string) error
	bulkFn        func(ctx context.Context, index string, items []db.BulkItem) error
	searchFn      func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)

	created   []*db.IndexDefinition
	bulks     [][]db.BulkItem
	refreshes int
	searches  []*db.KNNQuery
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.created = append(m.created, def)
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Refresh(ctx context.Context, name string) error {
	m.refreshes++
	if m.refreshFn != nil {
		return m.refreshFn(ctx, name)
	}
	return nil
}

func (m *mockStore) BulkIndex(ctx context.Context, index string, items []db.BulkItem) error {
	m.bulks = append(m.bulks, items)
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, items)
	}
	return nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.searches = append(m.searches, q)
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// mockOpener hands out the same mockStore and records connections.
type mockOpener struct {
	store *mockStore
	err   error
	conns []db.Connection
}

func (o *mockOpener) Open(conn db.Connection) (db.Store, error) {
	o.conns = append(o.conns, conn)
	if o.err != nil {
		return nil, o.err
	}
	return o.store, nil
}

// lenEmbedder maps a text to [len(text), 1, 0].
type lenEmbedder struct {
	calls int
	err   error
}

func (e *lenEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: []float32{float32(len(text)), 1, 0}, TotalTokens: 1}, nil
}

func newTestBuilder(opts Options) (*Builder, *mockOpener, *mockStore) {
	ms := &mockStore{}
	mo := &mockOpener{store: ms}
	b := NewBuilder(mo, opts, nil)
	n := 0
	b.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return b, mo, ms
}

func testDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.NewDocument(strings.Repeat("x", i+1), map[string]any{"n": i})
	}
	return docs
}
