package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/andina-bi/dashboard/config"
	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/loader"
	"github.com/andina-bi/dashboard/records"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "pretty" | "csv" | "text"
	ConfigPath string
	DataDir    string
	Locale     string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "pretty", "csv"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Andina BI dashboard",
		Long: `Loads the Andina sales, customer, inventory, receivables, product and
import tables and renders the executive, commercial and operational views,
over HTTP (serve) or on the command line (report).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|pretty|csv|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data", "", "read CSV tables from this directory (overrides the configured source)")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", "", "number formatting locale, e.g. es-CO or en")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewFacetsCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// loadConfig reads the config file and environment, then applies the
// global flag overrides.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.DataDir != "" {
		cfg.Source = config.Source{Driver: config.DriverCSV, Dir: o.DataDir, Tables: cfg.Source.Tables}
	}
	if o.Locale != "" {
		cfg.Locale = o.Locale
	}
	return cfg, nil
}

// setupLogging installs a text handler on w at the configured level, or
// debug when --verbose is set.
func (o *RootOptions) setupLogging(cfg config.Config, w io.Writer) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// openStore loads the configured source into a Record Store.
func openStore(ctx context.Context, cfg config.Config) (*records.Store, error) {
	src, err := loader.FromConfig(ctx, cfg.Source)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure source", err)
	}
	store, err := loader.LoadStore(ctx, src)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load data", err)
	}
	return store, nil
}

func formatterFor(cfg config.Config) *engine.Formatter {
	return engine.NewFormatter(
		engine.WithLocale(cfg.Locale),
		engine.WithCurrencySymbol(cfg.CurrencySymbol),
	)
}
