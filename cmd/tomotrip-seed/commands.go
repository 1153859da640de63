package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"tomotrip/internal/core/guidefilter"
	"tomotrip/internal/core/version"
	"tomotrip/internal/modkit/repokit"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/store"
	"tomotrip/internal/services/api/guides/repo"

	"github.com/spf13/cobra"
)

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "tomotrip-seed",
		Short:         "Manage the TomoTrip guide catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetContext(context.Background())
	root.PersistentFlags().Duration("timeout", 2*time.Minute, "overall deadline")

	root.AddCommand(
		newMigrateCmd(),
		newLoadCmd(),
		newFilterCmd(),
		newSearchesCmd(),
		newPingCmd(),
		newVersionCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the guide_profiles table and the search events table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if st.PG == nil && st.CH == nil {
				return errors.New("migrate: neither postgres nor clickhouse is enabled")
			}
			if st.PG != nil {
				if err := repo.NewPG().Bind(st.PG).EnsureSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "pg: guide_profiles ready")
			}
			if st.CH != nil {
				if err := st.CH.Exec(ctx, repo.EventsDDL); err != nil {
					return fmt.Errorf("migrate: %s: %w", repo.EventsTable, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ch: %s ready\n", repo.EventsTable)
			}
			return nil
		},
	}
}

func newLoadCmd() *cobra.Command {
	var (
		file   string
		prune  bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Validate a YAML catalog and upsert it into postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			log := logger.Named("seed")

			cat, err := readCatalog(ctx, file)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d guides valid\n", file, cat.Len())
				return nil
			}

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())
			if st.PG == nil {
				return errors.New("load: postgres is disabled")
			}

			records := cat.Records()
			var upserted, pruned int
			err = repokit.WithTx(ctx, st.PG, func(q repokit.Queryer) error {
				r := repo.NewPG().Bind(q)
				n, err := r.Upsert(ctx, records)
				if err != nil {
					return err
				}
				upserted = n
				if !prune {
					return nil
				}
				ids := make([]string, len(records))
				for i, g := range records {
					ids[i] = g.ID
				}
				pruned, err = r.Prune(ctx, ids)
				return err
			})
			if err != nil {
				return err
			}

			// the api serves a stale snapshot until the key goes away
			if st.KV != nil {
				c := &repo.Cached{KV: st.KV, Key: repo.DefaultCacheKey}
				if err := c.Invalidate(ctx); err != nil {
					log.Warn().Err(err).Msg("snapshot cache not invalidated")
				}
			}

			log.Info().Int("upserted", upserted).Int("pruned", pruned).Str("file", file).Msg("catalog loaded")
			fmt.Fprintf(cmd.OutOrStdout(), "upserted %d, pruned %d\n", upserted, pruned)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed/guides.yaml", "YAML catalog file")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete guides missing from the file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only")
	return cmd
}

func newFilterCmd() *cobra.Command {
	var (
		file     string
		location string
		language string
		maxFee   int
		keywords string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Run the guide filter over a YAML catalog without any backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := readCatalog(cmd.Context(), file)
			if err != nil {
				return err
			}
			q := guidefilter.FilterQuery{
				Location: location,
				Language: language,
				Keywords: guidefilter.ParseKeywords(nil, keywords),
			}
			if cmd.Flags().Changed("max-fee") {
				q.MaxFee = guidefilter.Fee(maxFee)
			}
			matched := cat.Filter(q)
			sum := guidefilter.Summarize(len(matched), cat.Len())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Summary guidefilter.Summary       `json:"summary"`
					Guides  []guidefilter.GuideRecord `json:"guides"`
				}{sum, matched})
			}

			fmt.Fprintln(out, sum.Text)
			if sum.NoResults {
				fmt.Fprintln(out, sum.Message)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tLANGUAGES\tFEE\tKEYWORDS")
			for _, g := range matched {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					g.ID, g.Name, g.Location, strings.Join(g.Languages, ","), g.HourlyFee, strings.Join(g.Keywords, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed/guides.yaml", "YAML catalog file")
	cmd.Flags().StringVar(&location, "location", "", "location substring")
	cmd.Flags().StringVar(&language, "language", "", "spoken language")
	cmd.Flags().IntVar(&maxFee, "max-fee", 0, "maximum hourly fee in yen")
	cmd.Flags().StringVar(&keywords, "keywords", "", "comma separated keywords")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSearchesCmd() *cobra.Command {
	var (
		since time.Duration
		limit int
	)
	cmd := &cobra.Command{
		Use:   "searches",
		Short: "Report the most frequent searches from clickhouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())
			if st.CH == nil {
				return errors.New("searches: clickhouse is disabled")
			}

			stats, err := repo.TopSearches(ctx, st.CH, time.Now().Add(-since), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LOCATION\tLANGUAGE\tSEARCHES\tEMPTY")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", blank(s.Location), blank(s.Language), s.Searches, s.Empty)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "look back window")
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to show")
	return cmd
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Report which backends are configured and reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BACKEND\tSTATUS")
			for _, name := range []string{"pg", "ch", "redis"} {
				status := "ok"
				switch err := st.Check(ctx, name); {
				case errors.Is(err, store.ErrDisabled):
					status = "disabled"
				case err != nil:
					status = "fail: " + err.Error()
				}
				fmt.Fprintf(tw, "%s\t%s\n", name, status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			return st.Guard(ctx)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bi := version.Info("tomotrip-seed")
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s)\n", bi.Service, bi.Version, bi.Commit, bi.Date)
			return err
		},
	}
}

// commandContext applies the --timeout deadline to the command context
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil || timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// readCatalog decodes and validates a YAML catalog file
func readCatalog(ctx context.Context, file string) (*guidefilter.Catalog, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("catalog file: %w", err)
	}
	records, err := repo.YAML{Path: file}.Load(ctx)
	if err != nil {
		return nil, err
	}
	return guidefilter.NewCatalog(records)
}

func blank(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
