package osvector

import "github.com/kailas-cloud/osvector/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrBuildFailed            = domain.ErrBuildFailed
	ErrInvalidConfig          = domain.ErrInvalidConfig
	ErrEmbedderNotConfigured  = domain.ErrEmbedderNotConfigured
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
