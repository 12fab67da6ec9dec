// Package pipeline runs one dashboard interaction end to end: it filters the
// record store by date range and facets, then hands the filtered views to a
// view composer. Controller keeps the interaction state between events.
package pipeline

import (
	"time"

	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/records"
)

// Source is the read-only record store the pipeline filters.
// *records.Store satisfies it.
type Source interface {
	Sales() engine.RecordView
	Receivables() engine.RecordView
	Inventory() engine.RecordView
	Customers() engine.RecordView
	SalesDateRange() (min, max time.Time, ok bool)
}

// Facets are the categorical selections. An empty list means no restriction.
type Facets struct {
	Categories       []string `json:"categories,omitempty"`
	Regions          []string `json:"regions,omitempty"`
	Segments         []string `json:"segments,omitempty"`
	LogisticsCenters []string `json:"logisticsCenters,omitempty"`
}

// IsEmpty reports whether no facet restricts anything.
func (f Facets) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Regions) == 0 &&
		len(f.Segments) == 0 && len(f.LogisticsCenters) == 0
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Criteria is everything Filter restricts on. A nil Range means the full range.
type Criteria struct {
	Range  *DateRange `json:"range,omitempty"`
	Facets Facets     `json:"facets"`
}

// Filtered holds the three filtered collections.
type Filtered struct {
	Sales       engine.RecordView
	Receivables engine.RecordView
	Inventory   engine.RecordView
}

// Filter applies the criteria to each collection:
//
//	sales        date, categories, regions, segments
//	receivables  invoice date, regions
//	inventory    categories, logistics centers
//
// Facets that do not apply to a collection are ignored. Filter never
// modifies the source.
func Filter(src Source, c Criteria) Filtered {
	sales := engine.Filters{
		Dimensions: map[string][]string{
			records.FieldCategory: c.Facets.Categories,
			records.FieldRegion:   c.Facets.Regions,
			records.FieldSegment:  c.Facets.Segments,
		},
		Dates: c.Range.on(records.FieldDate),
	}
	receivables := engine.Filters{
		Dimensions: map[string][]string{
			records.FieldRegion: c.Facets.Regions,
		},
		Dates: c.Range.on(records.FieldInvoiceDate),
	}
	inventory := engine.Filters{
		Dimensions: map[string][]string{
			records.FieldCategory:        c.Facets.Categories,
			records.FieldLogisticsCenter: c.Facets.LogisticsCenters,
		},
	}

	return Filtered{
		Sales:       engine.ApplyFilters(src.Sales(), sales),
		Receivables: engine.ApplyFilters(src.Receivables(), receivables),
		Inventory:   engine.ApplyFilters(src.Inventory(), inventory),
	}
}

func (r *DateRange) on(field string) *engine.DateRange {
	if r == nil {
		return nil
	}
	return &engine.DateRange{Field: field, Start: r.Start, End: r.End}
}
