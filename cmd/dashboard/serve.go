package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andina-bi/dashboard/metrics"
	"github.com/andina-bi/dashboard/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr  string
	Grace time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the tables and serve the dashboard API",
		Long: `Load the six tables once, then serve the views as JSON.

Routes:
  GET /api/views/{tab}          executive | commercial | operational
  GET /api/facets               filter options
  GET /api/quick-range/{preset} resolved preset dates
  GET /api/products/{id}        product lookup
  GET /healthz                  load summary
  GET /metrics                  Prometheus metrics

Example:
  dashboard serve --data ./tablas --addr :8050`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides listen_addr)")
	cmd.Flags().DurationVar(&opts.Grace, "grace", 10*time.Second, "graceful shutdown timeout")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.ListenAddr = opts.Addr
	}
	opts.setupLogging(cfg, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	start := time.Now()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	m.SetLoaded(store.Counts(), time.Since(start))

	h := server.New(store, formatterFor(cfg), m)
	if err := server.ListenAndServe(ctx, cfg.ListenAddr, h, opts.Grace); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}
	return nil
}
