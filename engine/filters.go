package engine

// ============================================================================
// FILTERS — Dimension and Date Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent) with no data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all filters.
// Dimensions are AND-combined; values within a dimension are OR-combined and
// matched exactly. A dimension the view does not expose is ignored, so one
// facet selection can be applied to collections with different columns.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	if filters.Dates != nil && filters.Dates.Empty() {
		return newSubView(view, []int{})
	}

	// Pre-build lookup sets for each applicable dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 && view.HasDimension(dim) {
			sets[dim] = toSet(allowed)
		}
	}

	if len(sets) == 0 && filters.Dates == nil {
		return view
	}

	// Single pass: a record passes if it matches ALL filters
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if filters.Dates != nil && !filters.Dates.Contains(view.Date(i, filters.Dates.Field)) {
			continue
		}
		pass := true
		for dim, set := range sets {
			if !set[view.Dimension(i, dim)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// Where returns the records for which keep reports true.
func Where(view RecordView, keep func(view RecordView, i int) bool) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(view, i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// MeasureAbove keeps records whose measure is strictly greater than min.
func MeasureAbove(measure string, min float64) func(RecordView, int) bool {
	return func(view RecordView, i int) bool {
		return view.Measure(i, measure) > min
	}
}

// DimensionPresent keeps records with a non-empty dimension value.
func DimensionPresent(dimension string) func(RecordView, int) bool {
	return func(view RecordView, i int) bool {
		return view.Dimension(i, dimension) != ""
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
