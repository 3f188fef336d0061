// Package main is the entry point for the fundmatch CLI.
//
//	@title			Fundmatch API
//	@version		1.0
//	@description	Hybrid semantic and fuzzy matching of free-text queries to mutual funds
//	@host			localhost:8080
//	@BasePath		/api/v1
package main

import (
	"fmt"
	"os"

	"github.com/helixml/fundmatch/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fundmatch",
		Short:         "Match free-text queries to investment funds",
		Long:          `fundmatch ranks a fund catalog against a natural-language query using sentence embeddings, re-ranks the top candidates with fuzzy metadata matching, and reports the best fund with an explanation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(matchCmd())
	cmd.AddCommand(fundsCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
