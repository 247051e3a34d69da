// Package invoke runs one component invocation: it resolves the embedding
// handle, validates the configuration and drives the component.
package invoke

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/component/opensearch"
	"github.com/kailas-cloud/osvector/internal/domain"
	"github.com/kailas-cloud/osvector/internal/logger"
)

// Request is one invocation of the current component. Embedding names the
// embedding handle; empty selects the default embedder.
type Request struct {
	opensearch.Config
	Embedding string `json:"embedding,omitempty"`
}

// LegacyRequest is one invocation of the legacy component.
type LegacyRequest struct {
	OpenSearchURL  string            `json:"opensearch_url"`
	IndexName      string            `json:"index_name"`
	Documents      []domain.Document `json:"documents"`
	Embedding      string            `json:"embedding,omitempty"`
	OpenSearchUser *string           `json:"opensearch_user,omitempty"`
	OpenSearchPass *string           `json:"opensearch_pass,omitempty"` //nolint:gosec // secret input
}

// BuildResult describes a completed build.
type BuildResult struct {
	IndexName         string `json:"index_name"`
	DocumentsIngested int    `json:"documents_ingested"`
}

// SearchResult carries the records returned by a search and the component
// status after the run.
type SearchResult struct {
	Results []domain.Data `json:"results"`
	Status  any           `json:"status"`
}

// Service runs component invocations.
type Service struct {
	builder   opensearch.StoreBuilder
	embedders EmbedderResolver
}

// New creates an invocation service.
func New(builder opensearch.StoreBuilder, embedders EmbedderResolver) *Service {
	return &Service{builder: builder, embedders: embedders}
}

// Build ingests the request's data into a fresh vector store.
func (s *Service) Build(ctx context.Context, req *Request) (BuildResult, error) {
	ctx = invocationContext(ctx, "build", req.IndexName, req.Embedding)
	c, err := s.component(req)
	if err != nil {
		return BuildResult{}, err
	}

	vs, err := c.BuildVectorStore(ctx)
	if err != nil {
		return BuildResult{}, err //nolint:wrapcheck // BuildError is the public failure
	}

	res := BuildResult{IndexName: vs.IndexName(), DocumentsIngested: len(req.IngestData)}
	logger.FromContext(ctx).Info("vector store built", zap.Int("documents", res.DocumentsIngested))
	return res, nil
}

// Search builds the vector store and runs the request's query against it.
func (s *Service) Search(ctx context.Context, req *Request) (SearchResult, error) {
	ctx = invocationContext(ctx, "search", req.IndexName, req.Embedding)
	c, err := s.component(req)
	if err != nil {
		return SearchResult{}, err
	}

	data, err := c.SearchDocuments(ctx)
	if err != nil {
		return SearchResult{}, err //nolint:wrapcheck // search errors propagate unmodified
	}

	logger.FromContext(ctx).Info("similarity search", zap.Int("results", len(data)))
	return SearchResult{Results: data, Status: c.Status()}, nil
}

// LegacyBuild runs the legacy component. Documents are ingested as given.
func (s *Service) LegacyBuild(ctx context.Context, req *LegacyRequest) (BuildResult, error) {
	ctx = invocationContext(ctx, "legacy_build", req.IndexName, req.Embedding)
	emb, err := s.embedders.Get(req.Embedding)
	if err != nil {
		return BuildResult{}, fmt.Errorf("resolve embedding: %w", err)
	}

	vs, err := opensearch.NewLegacy(s.builder).Build(ctx, emb,
		req.OpenSearchURL, req.IndexName, req.Documents, req.OpenSearchUser, req.OpenSearchPass)
	if err != nil {
		return BuildResult{}, err //nolint:wrapcheck // BuildError is the public failure
	}
	return BuildResult{IndexName: vs.IndexName(), DocumentsIngested: len(req.Documents)}, nil
}

// invocationContext tags the context logger so component and store logs
// name the invocation they belong to.
func invocationContext(ctx context.Context, op, index, embedding string) context.Context {
	if embedding == "" {
		embedding = "default"
	}
	return logger.WithFields(ctx,
		zap.String("op", op),
		zap.String("index", index),
		zap.String("embedding", embedding),
	)
}

func (s *Service) component(req *Request) (*opensearch.Component, error) {
	emb, err := s.embedders.Get(req.Embedding)
	if err != nil {
		return nil, fmt.Errorf("resolve embedding: %w", err)
	}

	c := opensearch.New(s.builder, req.Config, emb)
	if err := c.Validate(); err != nil {
		return nil, err //nolint:wrapcheck // already carries ErrInvalidConfig
	}
	return c, nil
}
