package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/cli"
	"github.com/theirongolddev/proplife/internal/config"
	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/portfolio"
	"github.com/theirongolddev/proplife/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDB       string
	flagPipeline string
	flagStatus   string
	flagTypes    []string
	flagSearch   string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:           "proplife",
	Short:         "Property lifecycle tracker",
	Long:          "Track properties through purchase, handover and subdivision pipelines.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runList,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(err.Error()))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDB, "db", "", "SQLite database path (default from config or PROPLIFE_DB)")
	pf.StringVarP(&flagPipeline, "pipeline", "w", "", "Workflow filter: all, direct_addition, purchase_pipeline, handover, subdivision")
	pf.StringVarP(&flagStatus, "status", "s", "", "Status filter: all, active, pending, completed, inactive")
	pf.StringSliceVarP(&flagTypes, "type", "t", nil, "Property type filter (repeatable or comma separated)")
	pf.StringVar(&flagSearch, "search", "", "Case-insensitive search over name, address, type and notes")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig returns the saved config, or defaults with a warning when the
// file cannot be read.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  %s\n", cli.RenderWarning(err.Error()+" (using defaults)"))
		}
		return config.DefaultConfig()
	}
	return cfg
}

func databasePath(cfg config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return config.DatabasePath(cfg)
}

// openStore opens the configured database. Callers close it.
func openStore(cfg config.Config) (*store.Store, error) {
	path := databasePath(cfg)
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return st, nil
}

func newEngine() *lifecycle.Engine {
	return lifecycle.MustNew(catalog.Default())
}

// buildFilter assembles the portfolio filter from the global flags, using
// the configured default workflow when --pipeline is absent.
func buildFilter(cfg config.Config) (portfolio.Filter, error) {
	f := portfolio.Filter{
		Pipeline: flagPipeline,
		Status:   strings.ToLower(flagStatus),
		Types:    flagTypes,
		Search:   strings.TrimSpace(flagSearch),
	}
	if f.Pipeline == "" {
		f.Pipeline = cfg.General.DefaultPipeline
	}
	f.Pipeline = strings.ToLower(f.Pipeline)
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// loadPortfolio is the shared data loading path used by listing commands.
func loadPortfolio(ctx context.Context, st *store.Store, engine *lifecycle.Engine) (*portfolio.LoadResult, error) {
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Evaluating %s", cli.RenderLoadProgress(current, total, 20))
		}
	}

	result, err := portfolio.Load(ctx, st, engine, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && result.Total > 0 {
		fmt.Fprintf(os.Stderr, "\r  Loaded %s properties (%d with stage records)          \n",
			cli.FormatNumber(int64(result.Total)), result.WithStages)
	}
	return result, nil
}

// notFound rewrites store.ErrNotFound into a user-facing message.
func notFound(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no property with id %q", id)
	}
	return err
}
