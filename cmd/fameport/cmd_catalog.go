package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/fameport/catalog"
	"github.com/arloliu/fameport/registry"
	"github.com/arloliu/fameport/tsrange"
)

type filterOptions struct {
	freq string
	from string
	to   string
}

func (f *filterOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.freq, "freq", "", "only read series of this host frequency (A, Q, M, W-FRI, B, D, H, T, S, L)")
	cmd.Flags().StringVar(&f.from, "from", "", "first date of the range filter, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last date of the range filter, YYYY-MM-DD")
}

// option turns the filter flags into a range filter, or nil when unset.
func (f *filterOptions) option(e *env) (catalog.Option, error) {
	if f.freq == "" && f.from == "" && f.to == "" {
		return nil, nil
	}
	if f.freq == "" || f.from == "" || f.to == "" {
		return nil, fmt.Errorf("--freq, --from and --to must be given together")
	}

	from, err := time.Parse(time.DateOnly, f.from)
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	to, err := time.Parse(time.DateOnly, f.to)
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}

	idx, err := tsrange.NewDateRange(registry.HostFreq(f.freq), from, to)
	if err != nil {
		return nil, err
	}
	rng, err := tsrange.NewConverter(e.sess, nil).ToStoreRange(idx)
	if err != nil {
		return nil, err
	}

	return catalog.WithRangeFilter(rng), nil
}

// readOptions collects the catalog options shared by the commands that read.
func readOptions(e *env, pattern string, filter *filterOptions) ([]catalog.Option, error) {
	if pattern == "" {
		pattern = e.cfg.Pattern
	}
	opts := []catalog.Option{catalog.WithPattern(pattern), catalog.WithLogger(e.logger)}

	rf, err := filter.option(e)
	if err != nil {
		return nil, err
	}
	if rf != nil {
		opts = append(opts, rf)
	}

	return opts, nil
}

func logReport(e *env, db string, cat *catalog.Catalog, report *catalog.Report) {
	e.logger.Info("catalog read",
		"database", db,
		"included", cat.Len(),
		"skipped", len(report.Outcomes)-report.Count(catalog.Included),
	)
	if report.Interrupted != nil {
		e.logger.Warn("catalog incomplete", "database", db, "error", report.Interrupted)
	}
}

func newCatalogCmd(root *rootOptions) *cobra.Command {
	var (
		pattern string
		filter  filterOptions
	)

	cmd := &cobra.Command{
		Use:   "catalog <database>",
		Short: "Print the catalog entries of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.setup(cmd)
			if err != nil {
				return err
			}
			opts, err := readOptions(e, pattern, &filter)
			if err != nil {
				return err
			}

			cat, report, err := catalog.Read(e.sess, args[0], opts...)
			if err != nil {
				return err
			}
			logReport(e, args[0], cat, report)

			return catalog.Print(cmd.OutOrStdout(), cat, e.sess)
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "wildcard of the objects to list ('?' any run, '^' one character)")
	filter.register(cmd)

	return cmd
}
