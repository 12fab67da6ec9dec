package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andina-bi/dashboard/pipeline"
)

// FacetsResult is what the facets command prints.
type FacetsResult struct {
	Categories       []string            `json:"categories"`
	Regions          []string            `json:"regions"`
	Segments         []string            `json:"segments"`
	LogisticsCenters []string            `json:"logisticsCenters"`
	Subcategories    map[string][]string `json:"subcategories"`
	MinDate          string              `json:"minDate,omitempty"`
	MaxDate          string              `json:"maxDate,omitempty"`
	Presets          []pipeline.Preset   `json:"presets"`
}

// NewFacetsCommand creates the facets command.
func NewFacetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List the filter options found in the data",
		Long: `List the categories, regions and segments found in the sales table, the
logistics centers found in the inventory table and the sales date range.

Example:
  dashboard facets --data ./tablas --format pretty`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			rootOpts.setupLogging(cfg, cmd.ErrOrStderr())

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			f := store.Facets()
			res := FacetsResult{
				Categories:       f.Categories,
				Regions:          f.Regions,
				Segments:         f.Segments,
				LogisticsCenters: f.LogisticsCenters,
				Subcategories:    store.SubcategoriesByCategory(),
				Presets:          pipeline.Presets(),
			}
			if min, max, ok := store.SalesDateRange(); ok {
				res.MinDate = min.Format(time.DateOnly)
				res.MaxDate = max.Format(time.DateOnly)
			}

			w := cmd.OutOrStdout()
			if rootOpts.Format == "json" || rootOpts.Format == "pretty" {
				if err := writeJSON(w, res, rootOpts.Format == "pretty"); err != nil {
					return WrapExitError(ExitFailure, "failed to write output", err)
				}
				return nil
			}

			fmt.Fprintf(w, "categories: %s\n", strings.Join(res.Categories, ", "))
			fmt.Fprintf(w, "regions: %s\n", strings.Join(res.Regions, ", "))
			fmt.Fprintf(w, "segments: %s\n", strings.Join(res.Segments, ", "))
			fmt.Fprintf(w, "centers: %s\n", strings.Join(res.LogisticsCenters, ", "))
			cats := make([]string, 0, len(res.Subcategories))
			for c := range res.Subcategories {
				cats = append(cats, c)
			}
			sort.Strings(cats)
			for _, c := range cats {
				fmt.Fprintf(w, "subcategories[%s]: %s\n", c, strings.Join(res.Subcategories[c], ", "))
			}
			if res.MinDate != "" {
				fmt.Fprintf(w, "dates: %s .. %s\n", res.MinDate, res.MaxDate)
			}
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dashboard %s\n", version)
		},
	}
}
