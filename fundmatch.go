// Package fundmatch matches free-text investment queries to the best fund in
// a catalog.
//
// Each fund is embedded once when the catalog is indexed. A query is
// embedded the same way, scored against every fund by cosine similarity,
// and the top candidates are re-ranked with fuzzy matching on their
// metadata. The best candidate is returned when its adjusted score clears
// the confidence threshold.
//
// Basic usage:
//
//	client, err := fundmatch.New(
//	    fundmatch.WithCatalogPath("funds.csv"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Match(ctx, "tax saving elss", fundmatch.WithTopK(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, line := range result.Explanation() {
//	    fmt.Println(line)
//	}
package fundmatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/helixml/fundmatch/application/service"
	"github.com/helixml/fundmatch/domain/fund"
	domainservice "github.com/helixml/fundmatch/domain/service"
	"github.com/helixml/fundmatch/infrastructure/catalog"
	"github.com/helixml/fundmatch/infrastructure/persistence"
	"github.com/helixml/fundmatch/infrastructure/provider"
	"github.com/helixml/fundmatch/internal/config"
	"github.com/helixml/fundmatch/internal/database"
)

// MatchOption configures a single match request.
type MatchOption = service.MatchOption

// Result is the outcome of one query together with its explanation.
type Result = service.Result

// WithTopK sets how many semantic candidates are re-ranked.
func WithTopK(k int) MatchOption { return service.WithTopK(k) }

// Client is the main entry point for the fundmatch library. The catalog is
// loaded and indexed when the client is created.
type Client struct {
	// Matcher runs queries against the current index.
	Matcher *service.Matcher

	source   fund.Source
	embedder provider.Embedder
	db       *database.Database
	reload   *service.PeriodicReload
	logger   *slog.Logger
	closed   atomic.Bool
	mu       sync.Mutex
}

// New creates a Client, loading and indexing the configured catalog.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = config.DefaultLogger()
	}

	if err := cfg.matchConfig.Validate(); err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}

	source := cfg.source
	if source == nil {
		src, err := catalog.NewSource(cfg.catalogPath, catalog.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("catalog source: %w", err)
		}
		source = src
	}

	base := cfg.embeddingProvider
	if base == nil {
		modelDir := cfg.modelDir
		if modelDir == "" {
			modelDir = filepath.Join(cfg.dataDir, config.DefaultModelSubdir)
		}
		hugot := provider.NewHugotEmbedding(modelDir, cfg.modelName)
		if !hugot.Available() {
			return nil, fmt.Errorf("%w in %s: run download-model or configure an embedding endpoint", ErrNoModel, modelDir)
		}
		logger.Info("built-in embedding provider enabled",
			slog.String("model", hugot.ModelID()),
			slog.String("model_dir", modelDir),
		)
		base = hugot
	}

	ctx := context.Background()
	client := &Client{
		source:   source,
		embedder: base,
		logger:   logger,
	}

	var store provider.VectorStore
	if cfg.dbURL != "" {
		db, err := database.NewDatabase(ctx, cfg.dbURL, logger)
		if err != nil {
			return nil, client.abandon(fmt.Errorf("open embedding cache: %w", err))
		}
		client.db = &db
		if err := persistence.AutoMigrate(db); err != nil {
			return nil, client.abandon(err)
		}
		store = persistence.NewEmbeddingCacheStore(db)
	}

	embedder, err := provider.NewCachedEmbedder(base, cfg.queryCacheSize, store, logger)
	if err != nil {
		return nil, client.abandon(err)
	}
	client.embedder = embedder

	builder, err := domainservice.NewIndexBuilder(embedder,
		domainservice.WithBatchBudget(cfg.batchBudget),
		domainservice.WithParallelism(cfg.parallelism),
	)
	if err != nil {
		return nil, client.abandon(err)
	}

	client.Matcher = service.NewMatcher(builder, cfg.matchConfig, source, &client.closed, cfg.recorder, logger)

	if err := client.Matcher.ReloadFromSource(ctx); err != nil {
		return nil, client.abandon(fmt.Errorf("index catalog %s: %w", source.Describe(), err))
	}

	client.reload = service.NewPeriodicReload(client.Matcher, source, cfg.reloadInterval, logger)
	client.reload.Start(ctx)

	return client, nil
}

// Match finds the fund that best fits query.
func (c *Client) Match(ctx context.Context, query string, opts ...MatchOption) (Result, error) {
	return c.Matcher.Match(ctx, query, opts...)
}

// Catalog returns the catalog behind the current index.
func (c *Client) Catalog() (fund.Catalog, error) {
	return c.Matcher.Catalog()
}

// Reload re-reads the catalog source and swaps in a fresh index. On failure
// the previous index stays active.
func (c *Client) Reload(ctx context.Context) error {
	return c.Matcher.ReloadFromSource(ctx)
}

// Source returns the catalog source.
func (c *Client) Source() fund.Source { return c.source }

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Close stops background reloading and releases the embedder and database.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.reload.Stop()

	var errs []error
	if err := c.embedder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close embedder: %w", err))
	}
	if err := c.closeDB(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	c.logger.Info("fundmatch client closed")
	return errors.Join(errs...)
}

// abandon releases the embedder and database acquired by a failed New and
// returns err joined with any close failures.
func (c *Client) abandon(err error) error {
	errs := []error{err}
	if c.embedder != nil {
		if cerr := c.embedder.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close embedder: %w", cerr))
		}
	}
	if cerr := c.closeDB(); cerr != nil {
		errs = append(errs, fmt.Errorf("close database: %w", cerr))
	}
	return errors.Join(errs...)
}

func (c *Client) closeDB() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
