package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andina-bi/dashboard/pipeline"
	"github.com/andina-bi/dashboard/views"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Start      string
	End        string
	Preset     string
	Categories []string
	Regions    []string
	Segments   []string
	Centers    []string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [tab]",
		Short: "Render one dashboard view to stdout",
		Long: `Render the executive (gerencial), commercial (comercial) or operational
(operativo) view with the given filters. The tab defaults to executive and
the date range to the full span of the sales data.

Example:
  dashboard report operational --data ./tablas --format csv
  dashboard report commercial --preset lastQuarter --categories Herramientas
  dashboard report executive --start 2024-01-01 --end 2024-03-31 --format pretty`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab := string(views.TabExecutive)
			if len(args) == 1 {
				tab = args[0]
			}
			return runReport(cmd, opts, tab)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.End, "end", "", "last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "quick range: all, lastYear, lastSemester, lastQuarter, last6Months, last3Months, currentMonth")
	cmd.Flags().StringSliceVar(&opts.Categories, "categories", nil, "category filter (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Regions, "regions", nil, "region filter (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Segments, "segments", nil, "segment filter (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Centers, "centers", nil, "logistics center filter (comma-separated)")

	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions, tabName string) error {
	tab, err := views.ParseTab(tabName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid tab", err)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	opts.setupLogging(cfg, cmd.ErrOrStderr())

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	ctrl := pipeline.NewController(store, formatterFor(cfg))
	if err := ctrl.SelectTab(tab); err != nil {
		return WrapExitError(ExitCommandError, "invalid tab", err)
	}
	if err := applyRange(ctrl, opts); err != nil {
		return WrapExitError(ExitCommandError, "invalid date range", err)
	}
	ctrl.SetFacets(pipeline.Facets{
		Categories:       opts.Categories,
		Regions:          opts.Regions,
		Segments:         opts.Segments,
		LogisticsCenters: opts.Centers,
	})

	bundle, err := ctrl.Render()
	if err != nil {
		return WrapExitError(ExitFailure, "render failed", err)
	}

	w := cmd.OutOrStdout()
	switch opts.Format {
	case "json", "pretty":
		err = writeJSON(w, bundle, opts.Format == "pretty")
	case "csv":
		err = writeCSV(w, bundle)
	default:
		err = writeText(w, bundle)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}
	return nil
}

// applyRange sets the controller's range from --preset, or from --start and
// --end with a missing bound left at the controller's default.
func applyRange(ctrl *pipeline.Controller, opts *ReportOptions) error {
	if opts.Preset != "" {
		p, err := pipeline.ParsePreset(opts.Preset)
		if err != nil {
			return err
		}
		return ctrl.QuickRange(p)
	}
	if opts.Start == "" && opts.End == "" {
		return nil
	}

	var start, end time.Time
	if r := ctrl.State().Range; r != nil {
		start, end = r.Start, r.End
	}
	if opts.Start != "" {
		t, err := time.Parse(time.DateOnly, opts.Start)
		if err != nil {
			return fmt.Errorf("invalid --start %q: want YYYY-MM-DD", opts.Start)
		}
		start = t
	}
	if opts.End != "" {
		t, err := time.Parse(time.DateOnly, opts.End)
		if err != nil {
			return fmt.Errorf("invalid --end %q: want YYYY-MM-DD", opts.End)
		}
		end = t
	}
	ctrl.SetDateRange(start, end)
	return nil
}
