package engine

import (
	"log/slog"
)

// ============================================================================
// EXECUTOR — Filter → Group → Aggregate for one Query
// ============================================================================
// Pipeline:
//   1. Apply filters from the Query → SubView
//   2. Group and aggregate the primary measure (sort, limit)
//   3. Sum extra measures into each group
//   4. Return Groups for a builder (chart / table)
//
// Pure: never mutates the input view.
// ============================================================================

// Query defines one grouped computation over a view.
type Query struct {
	Filters     Filters  `json:"filters"`
	GroupBy     []string `json:"groupBy"`
	Measure     string   `json:"measure"`     // primary measure
	Aggregation string   `json:"aggregation"` // "sum", "count", "avg", "max", "min"
	Sums        []string `json:"sums,omitempty"`
	SortBy      string   `json:"sortBy"` // "value_desc", "value_asc", "date_asc", "date_desc", "label_asc"
	Limit       int      `json:"limit"`  // 0 = all
}

// Execute runs a Query against a RecordView and returns its groups.
// An empty view (or an empty filtered view) yields no groups.
func Execute(q Query, view RecordView) []Group {
	filtered := ApplyFilters(view, q.Filters)
	if filtered.Len() == 0 {
		return nil
	}

	aggregation := q.Aggregation
	if aggregation == "" {
		aggregation = "sum"
	}

	groups := GroupAndAggregate(filtered, q.GroupBy, q.Measure, aggregation, q.SortBy, q.Limit)
	if len(q.Sums) > 0 {
		SumInto(groups, q.Sums...)
	}

	slog.Debug("engine: query executed",
		"records", view.Len(), "filtered", filtered.Len(),
		"groupBy", q.GroupBy, "measure", q.Measure, "groups", len(groups))

	return groups
}

// Total sums every group's Value. Used to check conservation and to build
// share-of-total series.
func Total(groups []Group) float64 {
	var total float64
	for _, g := range groups {
		total += g.Value
	}
	return total
}

// WithShares replaces each group's Value by its percentage of the total.
// A zero total leaves every share at 0.
func WithShares(groups []Group) []Group {
	total := Total(groups)
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].Value = RatioPercent(g.Value, total)
	}
	return out
}
