package engine

import "fmt"

// ============================================================================
// KPI BUILDER — Named scalars with display strings
// ============================================================================
// Scalars over an empty view are 0: sums, counts, means, distinct counts.
// ============================================================================

// BuildKPI wraps a scalar with its display form. NaN and ±Inf become 0.
func BuildKPI(key, label string, value float64, unit string, f *Formatter) KPI {
	value = finite(value)
	if f == nil {
		f = NewFormatter()
	}
	return KPI{
		Key:     key,
		Label:   label,
		Value:   value,
		Display: f.Format(value, unit),
		Unit:    unit,
	}
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a human-readable month span for a date field:
// "2024-01", "2024-01 – 2024-06", or "No data" for an empty view.
func DerivePeriod(view RecordView, dateKey string) string {
	min, max, ok := DateBounds(view, dateKey)
	if !ok {
		return "No data"
	}
	first, last := MonthKey(min), MonthKey(max)
	if first == last {
		return first
	}
	return fmt.Sprintf("%s – %s", first, last)
}
