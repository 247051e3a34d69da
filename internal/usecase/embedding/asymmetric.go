package embedding

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/osvector/internal/domain"
)

// AsymmetricEmbedder embeds stored documents and search queries with
// different instruction prefixes. Batch calls are treated as documents,
// single calls as queries.
type AsymmetricEmbedder struct {
	inner    domain.Embedder
	document *domain.InstructionEmbedder
	query    *domain.InstructionEmbedder
}

// NewAsymmetric wraps inner. When both instructions are empty inner is
// returned unchanged.
func NewAsymmetric(inner domain.Embedder, documentInstruction, queryInstruction string) domain.Embedder {
	if documentInstruction == "" && queryInstruction == "" {
		return inner
	}
	return &AsymmetricEmbedder{
		inner:    inner,
		document: domain.NewInstructionEmbedder(inner, documentInstruction),
		query:    domain.NewInstructionEmbedder(inner, queryInstruction),
	}
}

// Embed vectorizes a search query.
func (e *AsymmetricEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.query.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("query: %w", err)
	}
	return res, nil
}

// BatchEmbed vectorizes documents for ingestion.
func (e *AsymmetricEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	res, err := e.document.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("documents: %w", err)
	}
	return res, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (e *AsymmetricEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // pass-through
	}
	return nil
}
