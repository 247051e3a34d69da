package opensearch

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/component"
	"github.com/kailas-cloud/osvector/internal/domain"
	"github.com/kailas-cloud/osvector/internal/logger"
)

// LegacyDescriptor identifies the legacy variant.
var LegacyDescriptor = component.Descriptor{
	Name:          "OpenSearchLegacy",
	DisplayName:   "OpenSearchVector",
	Description:   "Implementation of Vector Store using OpenSearch",
	Documentation: "https://python.langchain.com/v0.2/docs/integrations/vectorstores/opensearch/",
}

// LegacyComponent is the map-configured variant. It takes documents as-is.
type LegacyComponent struct {
	builder StoreBuilder
}

// NewLegacy creates the legacy component.
func NewLegacy(builder StoreBuilder) *LegacyComponent {
	return &LegacyComponent{builder: builder}
}

// BuildConfig returns the legacy field configuration.
func (c *LegacyComponent) BuildConfig() map[string]component.FieldConfig {
	hidden := false
	return map[string]component.FieldConfig{
		"index_name": {DisplayName: "Index Name", Value: "your_index"},
		"code":       {DisplayName: "Code", Show: &hidden},
		"documents":  {DisplayName: "Documents", IsList: true},
		"embedding":  {DisplayName: "Embedding"},
		"opensearch_url": {
			DisplayName: "OpenSearch Connection Url",
			Advanced:    false,
		},
		"opensearch_user": {DisplayName: "OpenSearch Username"},
		"opensearch_pass": {DisplayName: "OpenSearch Password", Advanced: true},
	}
}

// Build ingests documents into a fresh vector store. Nil credentials are sent
// as empty strings.
func (c *LegacyComponent) Build(
	ctx context.Context,
	embedding domain.Embedder,
	url, index string,
	documents []domain.Document,
	user, pass *string,
) (domain.VectorStore, error) {
	auth := domain.BasicAuth{}
	if user != nil {
		auth.Username = *user
	}
	if pass != nil {
		auth.Password = *pass
	}

	vs, err := c.builder.FromDocuments(ctx, embedding, url, index, documents, auth)
	if err != nil {
		logger.FromContext(ctx).Warn("legacy build failed", zap.Int("documents", len(documents)), zap.Error(err))
		return nil, domain.NewBuildError(err)
	}
	return vs, nil
}
