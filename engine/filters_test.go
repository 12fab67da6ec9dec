package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sale(date, category, region string, subtotal, margin float64) Record {
	return Record{
		Dimensions: map[string]string{
			"category": category,
			"region":   region,
			"month":    MonthKey(day(date)),
		},
		Measures: map[string]float64{"subtotal": subtotal, "margin": margin},
		Dates:    map[string]time.Time{"date": day(date)},
	}
}

func sampleView() RecordView {
	return NewSliceView([]Record{
		sale("2024-01-10", "A", "North", 100, 20),
		sale("2024-02-15", "B", "South", 200, 50),
		sale("2024-02-20", "A", "South", 300, 30),
		sale("2024-03-05", "C", "North", 50, 5),
	})
}

func keysOf(view RecordView, dim string) []string {
	out := make([]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		out = append(out, view.Dimension(i, dim))
	}
	return out
}

// ============================================================================
// FILTER TESTS
// ============================================================================

func TestApplyFiltersEmptyReturnsSameView(t *testing.T) {
	view := sampleView()
	assert.Same(t, view, ApplyFilters(view, Filters{}))
	assert.Same(t, view, ApplyFilters(view, Filters{Dimensions: map[string][]string{"region": nil}}))
}

func TestApplyFiltersDateRangeInclusive(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{Dates: &DateRange{Field: "date", Start: day("2024-01-01"), End: day("2024-01-31")}})

	require.Equal(t, 1, got.Len())
	assert.Equal(t, 100.0, got.Measure(0, "subtotal"))

	edges := ApplyFilters(view, Filters{Dates: &DateRange{Field: "date", Start: day("2024-01-10"), End: day("2024-02-15")}})
	assert.Equal(t, 2, edges.Len())
}

func TestApplyFiltersIgnoresTimeOfDay(t *testing.T) {
	view := sampleView()
	end := day("2024-01-10").Add(time.Hour)
	got := ApplyFilters(view, Filters{Dates: &DateRange{Field: "date", Start: day("2024-01-10").Add(23 * time.Hour), End: end}})
	assert.Equal(t, 1, got.Len())
}

func TestApplyFiltersInvertedRangeIsEmpty(t *testing.T) {
	got := ApplyFilters(sampleView(), Filters{Dates: &DateRange{Field: "date", Start: day("2024-03-01"), End: day("2024-01-01")}})
	assert.Equal(t, 0, got.Len())
}

func TestApplyFiltersDimensionsAndAcrossOrWithin(t *testing.T) {
	got := ApplyFilters(sampleView(), Filters{Dimensions: map[string][]string{
		"category": {"A", "C"},
		"region":   {"North"},
	}})
	assert.Equal(t, []string{"A", "C"}, keysOf(got, "category"))
}

func TestApplyFiltersExactMatch(t *testing.T) {
	got := ApplyFilters(sampleView(), Filters{Dimensions: map[string][]string{"region": {"north"}}})
	assert.Equal(t, 0, got.Len())
}

func TestApplyFiltersUnknownDimensionHasNoEffect(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{Dimensions: map[string][]string{"segment": {"Retail"}}})
	assert.Equal(t, view.Len(), got.Len())
}

func TestApplyFiltersIdempotent(t *testing.T) {
	filters := Filters{
		Dimensions: map[string][]string{"region": {"South"}},
		Dates:      &DateRange{Field: "date", Start: day("2024-02-01"), End: day("2024-12-31")},
	}
	once := ApplyFilters(sampleView(), filters)
	twice := ApplyFilters(once, filters)

	require.Equal(t, once.Len(), twice.Len())
	for i := 0; i < once.Len(); i++ {
		assert.Equal(t, once.Measure(i, "subtotal"), twice.Measure(i, "subtotal"))
		assert.Equal(t, once.Date(i, "date"), twice.Date(i, "date"))
	}
}

func TestApplyFiltersDoesNotMutateParent(t *testing.T) {
	view := sampleView()
	_ = ApplyFilters(view, Filters{Dimensions: map[string][]string{"category": {"B"}}})
	assert.Equal(t, 4, view.Len())
	assert.Equal(t, []string{"A", "B", "A", "C"}, keysOf(view, "category"))
}

func TestWhere(t *testing.T) {
	got := Where(sampleView(), MeasureAbove("margin", 20))
	assert.Equal(t, []string{"B", "A"}, keysOf(got, "category"))
}
