package main

import (
	"log/slog"
	"os"

	"github.com/helixml/fundmatch/internal/log"
	"github.com/helixml/fundmatch/internal/mcp"
	"github.com/spf13/cobra"
)

func stdioCmd() *cobra.Command {
	var (
		envFile string
		catalog string
	)

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants match queries to funds and browse the catalog.
Configuration is loaded from environment variables and .env file. Logs go to
stderr because stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile, catalog)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Fund catalog CSV file (default: builtin catalog)")

	return cmd
}

func runStdio(envFile, catalog string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyCatalogOverride(cfg, catalog)

	logger := log.Configure(cfg, os.Stderr)
	logger.Info("starting MCP server",
		slog.String("version", version),
		slog.String("data_dir", cfg.DataDir()),
	)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer closeClient(client, logger)

	return mcp.NewServer(client, version, logger).ServeStdio()
}
