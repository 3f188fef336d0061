package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/infrastructure/api/jsonapi"
	"github.com/helixml/fundmatch/internal/log"
	"github.com/spf13/cobra"
)

type oneShotFlags struct {
	envFile string
	catalog string
	asJSON  bool
	verbose bool
}

func (f *oneShotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "Fund catalog CSV file (default: builtin catalog)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print JSON instead of text")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log at the configured level instead of WARN")
}

// openClient loads config and builds a client for a one-shot command.
func (f *oneShotFlags) openClient() (*fundmatch.Client, error) {
	cfg, err := loadConfig(f.envFile)
	if err != nil {
		return nil, err
	}
	cfg = quiet(applyCatalogOverride(cfg, f.catalog), f.verbose)
	return newClient(cfg, log.Configure(cfg, os.Stderr))
}

func matchCmd() *cobra.Command {
	var (
		flags oneShotFlags
		topK  int
	)

	cmd := &cobra.Command{
		Use:   "match <query>",
		Short: "Match a query against the fund catalog",
		Long: `Match a free-text query against the fund catalog and print the
explanation trace followed by the selected fund, or the no-match advisory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.openClient()
			if err != nil {
				return err
			}
			defer closeClient(client, client.Logger())

			var opts []fundmatch.MatchOption
			if cmd.Flags().Changed("top-k") {
				opts = append(opts, fundmatch.WithTopK(topK))
			}
			result, err := client.Match(context.Background(), strings.Join(args, " "), opts...)
			if err != nil {
				return err
			}
			return renderMatch(cmd.OutOrStdout(), result, flags.asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Candidates to re-rank (default: TOP_K)")

	return cmd
}

func fundsCmd() *cobra.Command {
	var flags oneShotFlags

	cmd := &cobra.Command{
		Use:   "funds",
		Short: "List the funds in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.openClient()
			if err != nil {
				return err
			}
			defer closeClient(client, client.Logger())

			catalog, err := client.Catalog()
			if err != nil {
				return err
			}
			return renderFunds(cmd.OutOrStdout(), catalog, flags.asJSON)
		},
	}

	flags.register(cmd)

	return cmd
}

// renderMatch prints the explanation trace, or the serialized result as JSON.
func renderMatch(w io.Writer, result fundmatch.Result, asJSON bool) error {
	if asJSON {
		attrs := jsonapi.NewSerializer().MatchAttributes(result)
		return writeJSON(w, attrs)
	}
	for _, line := range result.Explanation() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// renderFunds prints one row per fund, or the serialized catalog as JSON.
func renderFunds(w io.Writer, catalog fund.Catalog, asJSON bool) error {
	s := jsonapi.NewSerializer()
	if asJSON {
		funds := make([]jsonapi.FundAttributes, 0, catalog.Len())
		for _, r := range catalog.Records() {
			funds = append(funds, s.FundAttributes(r))
		}
		return writeJSON(w, funds)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tTYPE\tCATEGORY\tSECTOR")
	for _, r := range catalog.Records() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name(), r.Type(), r.Category(), r.Sector())
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
