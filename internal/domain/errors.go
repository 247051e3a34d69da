package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBuildFailed signals that the vector store could not be built.
	ErrBuildFailed = errors.New("failed to build OpenSearchVector")
	// ErrInvalidConfig signals a missing or malformed component input.
	ErrInvalidConfig = errors.New("invalid component config")
	// ErrUnknownEmbedding signals an embedding handle that is not registered.
	ErrUnknownEmbedding = errors.New("unknown embedding")
	// ErrEmbedderNotConfigured signals a build or search without an embedder.
	ErrEmbedderNotConfigured = errors.New("embedder not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// BuildError wraps the failure raised while building a vector store.
// It matches ErrBuildFailed and unwraps to the original error.
type BuildError struct {
	Err error
}

// NewBuildError wraps err as a build failure.
func NewBuildError(err error) error {
	return &BuildError{Err: err}
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %v", ErrBuildFailed.Error(), e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Is reports whether target is ErrBuildFailed.
func (e *BuildError) Is(target error) bool { return target == ErrBuildFailed }
