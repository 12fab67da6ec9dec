package engine

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView for zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// Group order is first occurrence unless a sort is requested; sorts are
// stable so ties keep first-occurrence order.
// ============================================================================

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else if len(groupBy) == 1 {
		groups = groupBySingle(view, groupBy[0])
	} else {
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// TopN groups by one dimension, sums measure and keeps the n largest groups.
// Fewer than n groups returns all of them.
func TopN(view RecordView, dimension, measure string, n int) []Group {
	return GroupAndAggregate(view, []string{dimension}, measure, "sum", "value_desc", n)
}

// SumInto adds per-group sums of extra measures to Group.Sums,
// including sub-groups.
func SumInto(groups []Group, measures ...string) {
	for i := range groups {
		g := &groups[i]
		if g.Sums == nil {
			g.Sums = make(map[string]float64, len(measures))
		}
		for _, m := range measures {
			if g.View != nil {
				g.Sums[m] = SumMeasure(g.View, m)
			}
		}
		SumInto(g.SubGroups, measures...)
	}
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) []Group {
	if len(dimensions) < 2 {
		return groupBySingle(view, dimensions[0])
	}

	primaryGroups := groupBySingle(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case "sum":
		group.Value = SumMeasure(group.View, measure)
	case "count":
		group.Value = float64(group.Count)
	case "avg", "mean":
		group.Value = AvgMeasure(group.View, measure)
	case "max":
		group.Value = MaxMeasure(group.View, measure)
	case "min":
		group.Value = MinMeasure(group.View, measure)
	case "none":
		// pass through
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes average of a named measure. Empty view → 0.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(-1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v > m {
			m = v
		}
	}
	return m
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v < m {
			m = v
		}
	}
	return m
}

// CountDistinct counts distinct non-empty values of a dimension.
func CountDistinct(view RecordView, dimension string) int {
	seen := make(map[string]struct{})
	for i := 0; i < view.Len(); i++ {
		if v := view.Dimension(i, dimension); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// RatioPercent returns numerator/denominator×100 rounded to 2 decimals.
// A zero denominator yields 0.
func RatioPercent(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	r := numerator / denominator * 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return RoundTo2(r)
}

// ============================================================================
// SNAPSHOTS & HISTOGRAMS
// ============================================================================

// LatestSnapshot returns the records whose date field falls on the latest
// calendar day present in the view. An empty view is returned unchanged.
func LatestSnapshot(view RecordView, dateKey string) RecordView {
	n := view.Len()
	if n == 0 {
		return view
	}
	latest := 0
	for i := 0; i < n; i++ {
		if d := CivilDay(view.Date(i, dateKey)); d > latest {
			latest = d
		}
	}
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if CivilDay(view.Date(i, dateKey)) == latest {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// Histogram splits the observed range of a measure into equal-width bins.
// The last bin is closed on both ends. When every value is the same a
// single bin holds all records. Empty view → nil.
func Histogram(view RecordView, measure string, bins int) []Bin {
	n := view.Len()
	if n == 0 || bins <= 0 {
		return nil
	}

	lo, hi := MinMeasure(view, measure), MaxMeasure(view, measure)
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: n}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for b := range out {
		out[b].Lower = lo + float64(b)*width
		out[b].Upper = lo + float64(b+1)*width
	}
	out[bins-1].Upper = hi

	for i := 0; i < n; i++ {
		idx := int((view.Measure(i, measure) - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// Sorting is stable; unknown modes keep grouping order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "chronological", "date_asc":
		sort.SliceStable(groups, func(i, j int) bool { return parseSortableDate(groups[i].Key) < parseSortableDate(groups[j].Key) })
	case "reverse_chronological", "date_desc":
		sort.SliceStable(groups, func(i, j int) bool { return parseSortableDate(groups[i].Key) > parseSortableDate(groups[j].Key) })
	case "label_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key > groups[j].Key })
	default:
		// preserve grouping order
	}
	for i := range groups {
		if len(groups[i].SubGroups) > 1 {
			SortGroups(groups[i].SubGroups, sortBy)
		}
	}
}

// ============================================================================
// TIME KEYS
// ============================================================================

// MonthKey is the bucket label for month aggregation ("2024-01").
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DayKey is the bucket label for daily aggregation ("2024-01-31").
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

var sortableLayouts = []string{"2006-01-02", "2006-01", "Jan-2006", "2006"}

// parseSortableDate converts a time bucket key to a sortable yyyymmdd int.
// Unparseable keys sort first.
func parseSortableDate(key string) int {
	for _, layout := range sortableLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return CivilDay(t)
		}
	}
	return 0
}

// ============================================================================
// UTILITIES
// ============================================================================

// RoundTo2 rounds half away from zero to 2 decimal places, on the value's
// shortest decimal form (1.005 rounds to 1.01).
func RoundTo2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// UniqueValues returns distinct non-empty values for a dimension, sorted.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	sort.Strings(result)
	return result
}

// DateBounds returns the earliest and latest calendar dates of a date field.
// ok is false for an empty view.
func DateBounds(view RecordView, dateKey string) (min, max time.Time, ok bool) {
	for i := 0; i < view.Len(); i++ {
		d := view.Date(i, dateKey)
		if !ok || d.Before(min) {
			min = d
		}
		if !ok || d.After(max) {
			max = d
		}
		ok = true
	}
	return min, max, ok
}
