package osvector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/component/opensearch"
	"github.com/kailas-cloud/osvector/internal/db"
	dbOpenSearch "github.com/kailas-cloud/osvector/internal/db/opensearch"
	"github.com/kailas-cloud/osvector/internal/domain"
	"github.com/kailas-cloud/osvector/internal/repository/vectorstore"
)

// SDK operation names.
const (
	opBuild  = "build"
	opSearch = "search"
	opPing   = "ping"
)

// Client is the osvector SDK entry point. It holds no open connection:
// every call opens a fresh cluster client.
type Client struct {
	cfg      *clientConfig
	builder  opensearch.StoreBuilder
	embedder domain.Embedder
	obs      *observer
}

// New creates a Client. WithOpenSearch and WithIndex are required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if strings.TrimSpace(cfg.url) == "" {
		return nil, fmt.Errorf("osvector: opensearch url required (use WithOpenSearch): %w", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.index) == "" {
		return nil, fmt.Errorf("osvector: index name required (use WithIndex): %w", ErrInvalidConfig)
	}
	if cfg.numberOfResults < 0 {
		return nil, fmt.Errorf("osvector: number of results must not be negative: %w", ErrInvalidConfig)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	builder := vectorstore.NewBuilder(cfg.opener(), vectorstore.Options{
		Engine:         db.Engine(cfg.engine),
		SpaceType:      db.SpaceType(cfg.spaceType),
		EFSearch:       cfg.efSearch,
		EFConstruction: cfg.efConstruction,
		M:              cfg.m,
		BulkSize:       cfg.bulkSize,
	}, zap.NewNop())

	return wireClient(cfg, builder, obs), nil
}

func (c *clientConfig) opener() *dbOpenSearch.Opener {
	return &dbOpenSearch.Opener{
		InsecureSkipVerify: c.insecureSkipVerify,
		RequestTimeout:     c.requestTimeout,
	}
}

func wireClient(cfg *clientConfig, builder opensearch.StoreBuilder, obs *observer) *Client {
	// Pass nil interface (not a typed nil) when no embedder is set.
	var emb domain.Embedder
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	}
	return &Client{cfg: cfg, builder: builder, embedder: emb, obs: obs}
}

func (c *Client) component(query string, items []Item) *opensearch.Component {
	return opensearch.New(c.builder, opensearch.Config{
		OpenSearchURL:   c.cfg.url,
		IndexName:       c.cfg.index,
		Username:        c.cfg.username,
		Password:        c.cfg.password,
		SearchQuery:     query,
		IngestData:      toIngest(items),
		NumberOfResults: c.cfg.numberOfResults,
	}, c.embedder)
}

// Build embeds items and indexes them, creating the index when missing.
// Failures match ErrBuildFailed and unwrap to the underlying error.
func (c *Client) Build(ctx context.Context, items ...Item) (res BuildResult, err error) {
	op := &operation{name: opBuild, index: c.cfg.index, items: len(items), start: time.Now()}
	defer func() {
		op.err = err
		c.obs.observe(op)
	}()

	vs, err := c.component("", items).BuildVectorStore(ctx)
	if err != nil {
		return BuildResult{}, err //nolint:wrapcheck // BuildError is the public failure
	}
	return BuildResult{IndexName: vs.IndexName(), DocumentsIngested: len(items)}, nil
}

// Search ingests items, then returns the records nearest to query.
// A blank query returns an empty, non-nil slice.
func (c *Client) Search(ctx context.Context, query string, items ...Item) (out []Data, err error) {
	op := &operation{name: opSearch, index: c.cfg.index, items: len(items), start: time.Now()}
	defer func() {
		op.results, op.err = len(out), err
		c.obs.observe(op)
	}()

	data, err := c.component(query, items).SearchDocuments(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // build and search errors are returned as-is
	}

	out = make([]Data, len(data))
	for i, d := range data {
		out[i] = dataFromDomain(d)
	}
	return out, nil
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) (err error) {
	op := &operation{name: opPing, index: c.cfg.index, start: time.Now()}
	defer func() {
		op.err = err
		c.obs.observe(op)
	}()

	store, err := c.cfg.opener().Open(db.Connection{
		URL:      c.cfg.url,
		Username: c.cfg.username,
		Password: c.cfg.password,
	})
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err = store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
