package fundmatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/helixml/fundmatch/application/service"
	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
	"github.com/helixml/fundmatch/infrastructure/provider"
	"github.com/helixml/fundmatch/internal/config"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	catalogPath       string
	source            fund.Source
	embeddingProvider provider.Embedder
	dataDir           string
	modelDir          string
	modelName         string
	dbURL             string
	matchConfig       search.MatchConfig
	logger            *slog.Logger
	recorder          service.MatchRecorder
	queryCacheSize    int
	reloadInterval    time.Duration
	batchBudget       search.BatchBudget
	parallelism       int
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:        config.DefaultDataDir(),
		matchConfig:    search.DefaultMatchConfig(),
		queryCacheSize: config.DefaultQueryCacheSize,
		batchBudget:    search.DefaultBatchBudget(),
		parallelism:    4,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithCatalogPath loads the catalog from a .csv, .tsv, .yaml, .yml or .json
// file. Without it the built-in sample catalog is used.
func WithCatalogPath(path string) Option {
	return func(c *clientConfig) { c.catalogPath = path }
}

// WithCatalogSource loads the catalog from a custom source. It takes
// precedence over WithCatalogPath.
func WithCatalogSource(src fund.Source) Option {
	return func(c *clientConfig) { c.source = src }
}

// WithEmbeddingProvider sets a custom embedding provider.
func WithEmbeddingProvider(p provider.Embedder) Option {
	return func(c *clientConfig) { c.embeddingProvider = p }
}

// WithOpenAI embeds with OpenAI's default embedding model.
func WithOpenAI(apiKey string) Option {
	return WithOpenAIConfig(provider.OpenAIConfig{APIKey: apiKey})
}

// WithOpenAIConfig embeds with any OpenAI-compatible endpoint.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = provider.NewOpenAIEmbedding(cfg)
	}
}

// WithDataDir sets the data directory. Local models default to its models
// subdirectory.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) { c.dataDir = dir }
}

// WithModelDir sets where the local embedding model is looked up.
func WithModelDir(dir string) Option {
	return func(c *clientConfig) { c.modelDir = dir }
}

// WithLocalModel selects the local sentence-transformer by name.
func WithLocalModel(name string) Option {
	return func(c *clientConfig) { c.modelName = name }
}

// WithEmbeddingCache persists embeddings in the database at url
// (sqlite:///path or postgres://...).
func WithEmbeddingCache(url string) Option {
	return func(c *clientConfig) { c.dbURL = url }
}

// WithMatchConfig sets the ranking thresholds.
func WithMatchConfig(cfg search.MatchConfig) Option {
	return func(c *clientConfig) { c.matchConfig = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// WithRecorder receives match and reload measurements.
func WithRecorder(r service.MatchRecorder) Option {
	return func(c *clientConfig) { c.recorder = r }
}

// WithQueryCacheSize sets how many embeddings are kept in memory. Zero
// disables the in-memory cache.
func WithQueryCacheSize(n int) Option {
	return func(c *clientConfig) {
		if n >= 0 {
			c.queryCacheSize = n
		}
	}
}

// WithReloadInterval polls the catalog file for changes and re-indexes it.
// Zero disables polling.
func WithReloadInterval(d time.Duration) Option {
	return func(c *clientConfig) { c.reloadInterval = d }
}

// WithBatchBudget sets how catalog texts are grouped into embedding requests.
func WithBatchBudget(b search.BatchBudget) Option {
	return func(c *clientConfig) { c.batchBudget = b }
}

// WithEmbeddingParallelism sets how many embedding batches run at once.
func WithEmbeddingParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// OptionsFromConfig translates application configuration into client
// options. It fails when the matching configuration is invalid.
func OptionsFromConfig(cfg config.AppConfig) ([]Option, error) {
	m := cfg.Matching()
	fields, err := fund.ParseFields(m.MatchFields())
	if err != nil {
		return nil, fmt.Errorf("match fields: %w", err)
	}
	matchCfg, err := search.NewMatchConfig(
		search.WithFuzzyThreshold(m.FuzzyThreshold()),
		search.WithFuzzyBonus(m.FuzzyBonus()),
		search.WithMatchFields(fields...),
		search.WithConfidenceThreshold(m.ConfidenceThreshold()),
		search.WithDefaultTopK(m.TopK()),
	)
	if err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}

	opts := []Option{
		WithDataDir(cfg.DataDir()),
		WithModelDir(cfg.ModelDir()),
		WithMatchConfig(matchCfg),
		WithQueryCacheSize(cfg.QueryCacheSize()),
		WithReloadInterval(cfg.ReloadInterval()),
	}
	if cfg.CatalogPath() != "" {
		opts = append(opts, WithCatalogPath(cfg.CatalogPath()))
	}
	if cfg.DBURL() != "" {
		opts = append(opts, WithEmbeddingCache(cfg.DBURL()))
	}
	if ep := cfg.EmbeddingEndpoint(); ep != nil && ep.IsConfigured() {
		opts = append(opts, WithOpenAIConfig(provider.OpenAIConfig{
			APIKey:        ep.APIKey(),
			BaseURL:       ep.BaseURL(),
			Model:         ep.Model(),
			Timeout:       ep.Timeout(),
			MaxRetries:    ep.MaxRetries(),
			InitialDelay:  ep.InitialDelay(),
			BackoffFactor: ep.BackoffFactor(),
		}))
	}
	return opts, nil
}
