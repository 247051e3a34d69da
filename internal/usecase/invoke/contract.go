package invoke

import "github.com/kailas-cloud/osvector/internal/domain"

// EmbedderResolver maps an embedding handle name to an embedder.
type EmbedderResolver interface {
	Get(name string) (domain.Embedder, error)
}
