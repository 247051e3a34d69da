// Package vectorstore builds and queries OpenSearch k-NN indices from
// embedded documents.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/db"
	"github.com/kailas-cloud/osvector/internal/domain"
	"github.com/kailas-cloud/osvector/internal/metrics"
)

// Stored document field names.
const (
	VectorField   = "vector_field"
	TextField     = "text"
	MetadataField = "metadata"
)

// DefaultBulkSize is the number of documents sent per bulk request.
const DefaultBulkSize = 500

// ErrNoEmbeddings is returned when a build has no documents to embed.
var ErrNoEmbeddings = errors.New("embeddings size is zero")

// Options control the index mapping and ingest batching.
type Options struct {
	Engine         db.Engine
	SpaceType      db.SpaceType
	EFSearch       int
	EFConstruction int
	M              int
	BulkSize       int
}

func (o Options) withDefaults() Options {
	if o.Engine == "" {
		o.Engine = db.EngineNmslib
	}
	if o.SpaceType == "" {
		o.SpaceType = db.SpaceL2
	}
	if o.EFSearch <= 0 {
		o.EFSearch = db.DefaultEFSearch
	}
	if o.EFConstruction <= 0 {
		o.EFConstruction = db.DefaultEFConstruction
	}
	if o.M <= 0 {
		o.M = db.DefaultM
	}
	if o.BulkSize <= 0 {
		o.BulkSize = DefaultBulkSize
	}
	return o
}

// Builder opens a fresh cluster client per build and ingests documents.
type Builder struct {
	opener db.Opener
	opts   Options
	newID  func() string
	logger *zap.Logger
}

// NewBuilder creates a vector store builder.
func NewBuilder(opener db.Opener, opts Options, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		opener: opener,
		opts:   opts.withDefaults(),
		newID:  uuid.NewString,
		logger: logger,
	}
}

// FromDocuments embeds docs, creates the index when missing, bulk-indexes the
// documents under fresh ids and refreshes the index. An empty docs slice
// fails with ErrNoEmbeddings before any client is opened.
func (b *Builder) FromDocuments(
	ctx context.Context,
	embedder domain.Embedder,
	url, index string,
	docs []domain.Document,
	auth domain.BasicAuth,
) (domain.VectorStore, error) {
	if embedder == nil {
		return nil, domain.ErrEmbedderNotConfigured
	}
	if len(docs) == 0 {
		return nil, ErrNoEmbeddings
	}

	backend, err := b.opener.Open(db.Connection{URL: url, Username: auth.Username, Password: auth.Password})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	vs := &Store{backend: backend, embedder: embedder, index: index, logger: b.logger}

	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].PageContent
	}
	emb, err := domain.EmbedTexts(ctx, embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}

	if len(emb.Embeddings) == 0 {
		return nil, ErrNoEmbeddings
	}

	if err := b.ensureIndex(ctx, backend, index, len(emb.Embeddings[0])); err != nil {
		return nil, err
	}

	if err := b.ingest(ctx, backend, index, docs, emb.Embeddings); err != nil {
		return nil, err
	}

	start := time.Now()
	err = backend.Refresh(ctx, index)
	metrics.ObserveVectorStoreOp(metrics.OpRefresh, start, err)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", index, err)
	}

	b.logger.Debug("vector store built",
		zap.String("index", index),
		zap.Int("documents", len(docs)),
		zap.Int("prompt_tokens", emb.PromptTokens),
	)
	return vs, nil
}

func (b *Builder) ensureIndex(ctx context.Context, backend db.Store, index string, dim int) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveVectorStoreOp(metrics.OpEnsureIndex, start, err) }()

	exists, err := backend.IndexExists(ctx, index)
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	if exists {
		return nil
	}

	def, err := b.indexDefinition(index, dim)
	if err != nil {
		return err
	}
	if err := backend.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	return nil
}

func (b *Builder) indexDefinition(index string, dim int) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(index).
		EFSearch(b.opts.EFSearch).
		HNSWVector(VectorField, dim, b.opts.Engine, b.opts.SpaceType, b.opts.M, b.opts.EFConstruction).
		Text(TextField).
		Object(MetadataField).
		Build()
	if err != nil {
		return nil, fmt.Errorf("index definition: %w", err)
	}
	return def, nil
}

func (b *Builder) ingest(
	ctx context.Context, backend db.Store, index string, docs []domain.Document, vectors [][]float32,
) error {
	for lo := 0; lo < len(docs); lo += b.opts.BulkSize {
		hi := min(lo+b.opts.BulkSize, len(docs))

		items := make([]db.BulkItem, 0, hi-lo)
		for i := lo; i < hi; i++ {
			items = append(items, db.BulkItem{
				ID:     b.newID(),
				Source: toSource(&docs[i], vectors[i]),
			})
		}

		start := time.Now()
		err := backend.BulkIndex(ctx, index, items)
		metrics.ObserveVectorStoreOp(metrics.OpIngest, start, err)
		if err != nil {
			return fmt.Errorf("bulk index %s [%d:%d]: %w", index, lo, hi, err)
		}
		metrics.VectorStoreDocumentsTotal.Add(float64(len(items)))
	}
	return nil
}

func toSource(doc *domain.Document, vec []float32) map[string]any {
	meta := doc.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		VectorField:   vec,
		TextField:     doc.PageContent,
		MetadataField: meta,
	}
}

var _ domain.VectorStore = (*Store)(nil)

// Store is a handle to one built index.
type Store struct {
	backend  db.Store
	embedder domain.Embedder
	index    string
	logger   *zap.Logger
}

// IndexName returns the index the store reads from.
func (s *Store) IndexName() string {
	return s.index
}

// SimilaritySearch embeds query and returns at most k nearest documents.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.Document, error) {
	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	start := time.Now()
	res, err := s.backend.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    s.index,
		VectorField:  VectorField,
		Vector:       emb.Embedding,
		K:            k,
		SourceFields: []string{TextField, MetadataField},
	})
	metrics.ObserveVectorStoreOp(metrics.OpSearch, start, err)
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", s.index, err)
	}

	docs := make([]domain.Document, 0, min(len(res.Entries), k))
	for i := range res.Entries {
		if len(docs) == k {
			break
		}
		docs = append(docs, fromSource(res.Entries[i].Source))
	}
	s.logger.Debug("similarity search",
		zap.String("index", s.index),
		zap.Int("k", k),
		zap.Int("hits", len(docs)),
	)
	return docs, nil
}

func fromSource(src map[string]any) domain.Document {
	text, _ := src[TextField].(string)
	meta, _ := src[MetadataField].(map[string]any)
	return domain.NewDocument(text, meta)
}
