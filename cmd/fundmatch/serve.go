package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/infrastructure/api"
	"github.com/helixml/fundmatch/internal/config"
	"github.com/helixml/fundmatch/internal/log"
	"github.com/helixml/fundmatch/internal/metrics"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
		catalog string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  DATA_DIR                     Data directory (default: ~/.fundmatch)
  DB_URL                       Embedding cache database URL (default: disabled)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  CATALOG_PATH                 Fund catalog CSV file (default: builtin catalog)
  CATALOG_RELOAD_INTERVAL      Catalog reload interval in seconds (default: 0, disabled)
  MODEL_DIR                    Local embedding model directory (default: {data_dir}/models)

  EMBEDDING_ENDPOINT_*         OpenAI-compatible embedding service
    BASE_URL                   Base URL (e.g., https://api.openai.com/v1)
    MODEL                      Model identifier (e.g., text-embedding-3-small)
    API_KEY                    API key for authentication
    TIMEOUT                    Request timeout in seconds (default: 60)
    MAX_RETRIES                Retry attempts (default: 5)

  FUZZY_THRESHOLD              Partial-ratio score a field must exceed (default: 70)
  FUZZY_BONUS                  Bonus per matched field (default: 0.05)
  MATCH_FIELDS                 Fields compared with the query (default: type,category,sector)
  CONFIDENCE_THRESHOLD         Minimum adjusted score for a match (default: 0.3)
  TOP_K                        Candidates re-ranked per query (default: 3)
  QUERY_CACHE_SIZE             Cached query embeddings (default: 1024)

  CORS_ALLOWED_ORIGINS         Comma-separated allowed origins (default: none)
  METRICS_ENABLED              Expose Prometheus metrics on /metrics (default: true)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port, catalog)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Fund catalog CSV file (default: builtin catalog)")

	return cmd
}

func runServe(envFile, host string, port int, catalog string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)
	cfg = applyCatalogOverride(cfg, catalog)

	logger := log.Configure(cfg, os.Stderr)
	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(context.Background(), slog.LevelInfo, "starting fundmatch", attrs...)

	var (
		extra      []fundmatch.Option
		apiOptions = []api.APIServerOption{
			api.WithVersion(version),
			api.WithCORSAllowedOrigins(cfg.CORSAllowedOrigins()),
		}
	)
	if cfg.MetricsEnabled() {
		recorder := metrics.NewRecorder()
		extra = append(extra, fundmatch.WithRecorder(recorder))
		apiOptions = append(apiOptions, api.WithMetricsHandler(recorder.Handler()))
	}

	client, err := newClient(cfg, logger, extra...)
	if err != nil {
		return err
	}
	defer closeClient(client, logger)

	apiServer := api.NewAPIServer(client, apiOptions...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.ListenAndServe(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
