// Package app is the composition root shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/component/opensearch"
	"github.com/kailas-cloud/osvector/internal/config"
	"github.com/kailas-cloud/osvector/internal/db"
	dbOpenSearch "github.com/kailas-cloud/osvector/internal/db/opensearch"
	dbRedis "github.com/kailas-cloud/osvector/internal/db/redis"
	"github.com/kailas-cloud/osvector/internal/domain"
	"github.com/kailas-cloud/osvector/internal/metrics"
	"github.com/kailas-cloud/osvector/internal/repository/embcache"
	"github.com/kailas-cloud/osvector/internal/repository/vectorstore"
	openaiEmb "github.com/kailas-cloud/osvector/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/osvector/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/osvector/internal/usecase/health"
	"github.com/kailas-cloud/osvector/internal/usecase/invoke"
)

// App holds the wired services.
type App struct {
	Embedders *embeddinguc.Registry
	Builder   *vectorstore.Builder
	Invoke    *invoke.Service
	Health    *healthuc.Service
	Legacy    *opensearch.LegacyComponent

	cache *dbRedis.Store
}

// New wires the services described by cfg. The embedding cache, when
// configured, must become ready within its readiness timeout.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterVectorStoreMetrics()

	a := &App{}

	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(cacheStoreConfig(cfg.Cache))
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		a.cache = store
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	a.Embedders = embeddinguc.NewRegistry(defaultVectorizer(cfg))
	for name, vecCfg := range cfg.Embedding.Vectorizers {
		a.Embedders.Register(name, buildEmbedder(cfg, name, vecCfg, a.cache, logger))
		logger.Info("Embedder registered",
			zap.String("handle", name),
			zap.String("provider", vecCfg.Provider),
			zap.String("model", vecCfg.Model),
			zap.Int("dimensions", vecCfg.Dimensions),
		)
	}

	opener := &dbOpenSearch.Opener{
		InsecureSkipVerify: cfg.OpenSearch.InsecureSkipVerify,
		RequestTimeout:     time.Duration(cfg.OpenSearch.RequestTimeoutSec) * time.Second,
	}
	a.Builder = vectorstore.NewBuilder(opener, vectorstore.Options{
		Engine:         db.Engine(cfg.OpenSearch.Engine),
		SpaceType:      db.SpaceType(cfg.OpenSearch.SpaceType),
		EFSearch:       cfg.OpenSearch.EFSearch,
		EFConstruction: cfg.OpenSearch.EFConstruction,
		M:              cfg.OpenSearch.M,
		BulkSize:       cfg.OpenSearch.BulkSize,
	}, logger)
	a.Invoke = invoke.New(a.Builder, a.Embedders)
	a.Legacy = opensearch.NewLegacy(a.Builder)

	health, err := a.newHealth(cfg, opener)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Health = health

	return a, nil
}

// Close releases the cache connection.
func (a *App) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// Pass nil interfaces (not typed nil pointers) for checks that are not configured.
func (a *App) newHealth(cfg *config.Config, opener *dbOpenSearch.Opener) (*healthuc.Service, error) {
	var cluster, cache healthuc.Pinger
	if hc := cfg.OpenSearch.Health; hc.URL != "" {
		store, err := dbOpenSearch.NewStore(dbOpenSearch.Config{
			URL:                hc.URL,
			Username:           hc.Username,
			Password:           hc.Password,
			InsecureSkipVerify: opener.InsecureSkipVerify,
			RequestTimeout:     opener.RequestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create health cluster client: %w", err)
		}
		cluster = store
	}
	if a.cache != nil {
		cache = a.cache
	}
	return healthuc.New(cluster, cache, a.Embedders), nil
}

// NewInvokeService wires an App and returns its invocation service with a
// cleanup func.
func NewInvokeService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*invoke.Service, func(), error) {
	a, err := New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a.Invoke, a.Close, nil
}

// defaultVectorizer returns embedding.default, or the first vectorizer by
// name when no default is set.
func defaultVectorizer(cfg *config.Config) string {
	if cfg.Embedding.Default != "" {
		return cfg.Embedding.Default
	}
	names := make([]string, 0, len(cfg.Embedding.Vectorizers))
	for n := range cfg.Embedding.Vectorizers {
		names = append(names, n)
	}
	slices.Sort(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Asymmetric.
func cacheStoreConfig(c config.CacheConfig) dbRedis.Config {
	return dbRedis.Config{
		Addrs:      c.Addrs,
		Username:   c.Username,
		Password:   c.Password,
		DB:         c.DB,
		Standalone: c.Standalone,
	}
}

func buildEmbedder(
	cfg *config.Config,
	name string,
	vecCfg config.VectorizerConfig,
	cache *dbRedis.Store,
	logger *zap.Logger,
) domain.Embedder {
	provCfg := cfg.Embedding.Providers[vecCfg.Provider]

	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   vecCfg.Provider,
		Handle:     name,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cache != nil {
		embedder = embcache.New(base, cache, name,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, vecCfg.Provider, vecCfg.Model, cfg.Embedding.MaxBatchSize, logger,
	)

	// Outermost, so cache keys include the instruction.
	return embeddinguc.NewAsymmetric(embedder, vecCfg.DocumentInstruction, vecCfg.QueryInstruction)
}
