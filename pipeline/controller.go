package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/views"
)

// ============================================================================
// INTERACTION STATE — Tab, date range and facets
// ============================================================================
// State is the whole interaction. Every event produces a new State and the
// view is recomputed from scratch by Run; nothing else is kept between
// events.
// ============================================================================

// State is the current tab plus the filter criteria.
type State struct {
	Tab    views.Tab  `json:"tab"`
	Range  *DateRange `json:"range,omitempty"`
	Facets Facets     `json:"facets"`
}

// Criteria returns the filter part of the state.
func (s State) Criteria() Criteria {
	return Criteria{Range: s.Range, Facets: s.Facets}
}

// Run filters src by the state and composes the state's tab. It is a pure
// function of its arguments and safe to call concurrently over a shared
// store. A nil formatter uses the default locale.
func Run(src Source, state State, f *engine.Formatter) (views.Bundle, error) {
	filtered := Filter(src, state.Criteria())

	bundle, err := views.Compose(state.Tab, views.Input{
		Sales:       filtered.Sales,
		Receivables: filtered.Receivables,
		Inventory:   filtered.Inventory,
		Customers:   src.Customers(),
		Formatter:   f,
	})
	if err != nil {
		return views.Bundle{}, err
	}

	slog.Debug("pipeline: view composed",
		"tab", state.Tab,
		"sales", src.Sales().Len(), "filteredSales", filtered.Sales.Len(),
		"filteredReceivables", filtered.Receivables.Len(),
		"filteredInventory", filtered.Inventory.Len())

	return bundle, nil
}

// ============================================================================
// CONTROLLER — Event handling over one State
// ============================================================================

// Controller applies interaction events to a State and renders the active
// tab. It serves one user; it is not safe for concurrent use.
type Controller struct {
	src       Source
	formatter *engine.Formatter
	state     State
}

// NewController starts on the executive tab with no facets and the date
// range set to the full span of the sales data.
func NewController(src Source, f *engine.Formatter) *Controller {
	c := &Controller{
		src:       src,
		formatter: f,
		state:     State{Tab: views.TabExecutive},
	}
	if min, max, ok := src.SalesDateRange(); ok {
		c.state.Range = &DateRange{Start: min, End: max}
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	if s.Range != nil {
		r := *s.Range
		s.Range = &r
	}
	s.Facets = Facets{
		Categories:       append([]string(nil), s.Facets.Categories...),
		Regions:          append([]string(nil), s.Facets.Regions...),
		Segments:         append([]string(nil), s.Facets.Segments...),
		LogisticsCenters: append([]string(nil), s.Facets.LogisticsCenters...),
	}
	return s
}

// SelectTab switches the active tab.
func (c *Controller) SelectTab(tab views.Tab) error {
	parsed, err := views.ParseTab(string(tab))
	if err != nil {
		return err
	}
	c.state.Tab = parsed
	return nil
}

// SetDateRange sets an explicit inclusive range. A start after the end is
// accepted and filters everything out.
func (c *Controller) SetDateRange(start, end time.Time) {
	c.state.Range = &DateRange{Start: start, End: end}
}

// ClearDateRange removes the date restriction.
func (c *Controller) ClearDateRange() {
	c.state.Range = nil
}

// SetFacets replaces every facet selection.
func (c *Controller) SetFacets(f Facets) {
	c.state.Facets = f
}

// ClearFacets drops all facet selections. The date range is kept.
func (c *Controller) ClearFacets() {
	c.state.Facets = Facets{}
}

// QuickRange sets the date range from a preset anchored at the sales date
// bounds. With no sales data the range is left unchanged.
func (c *Controller) QuickRange(p Preset) error {
	min, max, ok := c.src.SalesDateRange()
	if !ok {
		if _, known := presetMonths[p]; !known && p != PresetAll {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, p)
		}
		return nil
	}
	r, err := QuickRange(p, min, max)
	if err != nil {
		return err
	}
	c.state.Range = &r
	return nil
}

// Render recomputes the active tab from the current state.
func (c *Controller) Render() (views.Bundle, error) {
	return Run(c.src, c.state, c.formatter)
}
