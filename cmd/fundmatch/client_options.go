package main

import (
	"fmt"
	"log/slog"

	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/internal/config"
)

// newClient builds a fundmatch client from AppConfig. Callers pass
// entrypoint-specific options (recorder, catalog override) in extra.
func newClient(cfg config.AppConfig, logger *slog.Logger, extra ...fundmatch.Option) (*fundmatch.Client, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts, err := fundmatch.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, fundmatch.WithLogger(logger))
	opts = append(opts, extra...)

	client, err := fundmatch.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create fundmatch client: %w", err)
	}
	return client, nil
}

// closeClient closes the client, logging any failure.
func closeClient(client *fundmatch.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.Error("failed to close fundmatch client", slog.Any("error", err))
	}
}

// applyCatalogOverride points the config at a catalog file when one is given.
func applyCatalogOverride(cfg config.AppConfig, path string) config.AppConfig {
	if path == "" {
		return cfg
	}
	return cfg.Apply(config.WithCatalogPath(path))
}

// quiet raises the log level to WARN for one-shot commands unless verbose.
func quiet(cfg config.AppConfig, verbose bool) config.AppConfig {
	if verbose {
		return cfg
	}
	return cfg.Apply(config.WithLogLevel("WARN"))
}
