// Package opensearch is the OpenSearch vector store node: it builds an index
// from the configured documents and answers similarity queries against it.
package opensearch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/component"
	"github.com/kailas-cloud/osvector/internal/domain"
	"github.com/kailas-cloud/osvector/internal/logger"
)

// DefaultNumberOfResults is used when NumberOfResults is unset.
const DefaultNumberOfResults = 4

// Input names.
const (
	InputOpenSearchURL   = "opensearch_url"
	InputIndexName       = "index_name"
	InputUsername        = "opensearch_user"
	InputPassword        = "opensearch_pass"
	InputCode            = "code"
	InputSearchQuery     = "search_query"
	InputIngestData      = "ingest_data"
	InputNumberOfResults = "number_of_results"
	InputEmbedding       = "embedding"
)

// Descriptor identifies the current variant.
var Descriptor = component.Descriptor{
	Name:          "OpenSearch",
	DisplayName:   "OpenSearchVector",
	Description:   "Implementation of Vector Store using OpenSearch",
	Documentation: "https://python.langchain.com/v0.2/docs/integrations/vectorstores/opensearch/",
	Icon:          "database",
}

// Config is the per-invocation configuration of the component.
type Config struct {
	OpenSearchURL   string              `json:"opensearch_url"`
	IndexName       string              `json:"index_name"`
	Username        string              `json:"opensearch_user,omitempty"`
	Password        string              `json:"opensearch_pass,omitempty"` //nolint:gosec // secret input
	Code            string              `json:"code,omitempty"`
	SearchQuery     string              `json:"search_query,omitempty"`
	IngestData      []domain.IngestItem `json:"ingest_data,omitempty"`
	NumberOfResults int                 `json:"number_of_results,omitempty"`
}

// Component is the current OpenSearch vector store node.
type Component struct {
	component.Base

	Config
	Embedding domain.Embedder

	builder StoreBuilder
}

// New creates a component with the given configuration.
func New(builder StoreBuilder, cfg Config, embedding domain.Embedder) *Component {
	return &Component{Config: cfg, Embedding: embedding, builder: builder}
}

// Inputs returns the declarative field schema.
func Inputs() []component.Input {
	return []component.Input{
		component.StrInput(InputOpenSearchURL, "OpenSearch Connection String", component.Required()),
		component.StrInput(InputIndexName, "Index Name", component.Required()),
		component.StrInput(InputUsername, "OpenSearch Username", component.Info("Enter your username.")),
		component.SecretStrInput(InputPassword, "OpenSearch Password", component.Info("Enter your password.")),
		component.StrInput(InputCode, "Code", component.Advanced()),
		component.MultilineInput(InputSearchQuery, "Search Query"),
		component.DataInput(InputIngestData, "Ingest Data", component.IsList()),
		component.IntInput(InputNumberOfResults, "Number of Results",
			component.Advanced(),
			component.Value(DefaultNumberOfResults),
			component.Info("Number of results to return."),
		),
		component.HandleInput(InputEmbedding, "Embedding", []string{"Embeddings"}),
	}
}

// Inputs returns the declarative field schema.
func (c *Component) Inputs() []component.Input { return Inputs() }

// Validate checks the required fields.
func (c *Component) Validate() error {
	if strings.TrimSpace(c.OpenSearchURL) == "" {
		return fmt.Errorf("%s is required: %w", InputOpenSearchURL, domain.ErrInvalidConfig)
	}
	if strings.TrimSpace(c.IndexName) == "" {
		return fmt.Errorf("%s is required: %w", InputIndexName, domain.ErrInvalidConfig)
	}
	if c.NumberOfResults < 0 {
		return fmt.Errorf("%s must not be negative: %w", InputNumberOfResults, domain.ErrInvalidConfig)
	}
	return nil
}

// BuildVectorStore ingests the configured documents into a fresh vector store.
// Every call re-ingests. Failures are returned as *domain.BuildError.
func (c *Component) BuildVectorStore(ctx context.Context) (domain.VectorStore, error) {
	docs := domain.NormalizeIngest(c.IngestData)

	vs, err := c.builder.FromDocuments(ctx, c.Embedding, c.OpenSearchURL, c.IndexName, docs,
		domain.BasicAuth{Username: c.Username, Password: c.Password})
	if err != nil {
		logger.FromContext(ctx).Warn("build vector store failed",
			zap.Int("documents", len(docs)),
			zap.Error(err),
		)
		return nil, domain.NewBuildError(err)
	}
	return vs, nil
}

// SearchDocuments builds the vector store and, for a non-blank query, returns
// the nearest records. The results are also recorded as the status.
func (c *Component) SearchDocuments(ctx context.Context) ([]domain.Data, error) {
	vs, err := c.BuildVectorStore(ctx)
	if err != nil {
		return nil, err
	}

	query := c.SearchQuery
	if strings.TrimSpace(query) == "" {
		return []domain.Data{}, nil
	}

	docs, err := vs.SimilaritySearch(ctx, query, c.k())
	if err != nil {
		return nil, err
	}

	data := domain.DocsToData(docs)
	c.SetStatus(data)
	return data, nil
}

func (c *Component) k() int {
	if c.NumberOfResults <= 0 {
		return DefaultNumberOfResults
	}
	return c.NumberOfResults
}
