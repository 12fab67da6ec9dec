package engine

import "time"

// ============================================================================
// ENGINE TYPES — Domain-Agnostic Filtering and Aggregation
// ============================================================================
// The engine knows nothing about sales or inventory. It reads rows through
// RecordView (dimensions, measures, dates) and produces Groups, which the
// builders turn into ChartConfig, TableData and KPI values.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions, numeric measures and
// calendar dates. Used with SliceView for ad-hoc data and tests.
type Record struct {
	Dimensions map[string]string    `json:"dimensions"`
	Measures   map[string]float64   `json:"measures"`
	Dates      map[string]time.Time `json:"dates,omitempty"`
}

// ============================================================================
// FILTERS
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
// Dates, when set, restricts one date field to an inclusive range.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions,omitempty"`
	Dates      *DateRange          `json:"dates,omitempty"`
}

// DateRange is an inclusive range of calendar dates over one date field.
// Times of day are ignored on both the bounds and the row values.
type DateRange struct {
	Field string    `json:"field"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls on a calendar day within the range.
// A range whose start is after its end contains nothing.
func (r DateRange) Contains(t time.Time) bool {
	day := CivilDay(t)
	return day >= CivilDay(r.Start) && day <= CivilDay(r.End)
}

// Empty reports whether the range can never match (start after end).
func (r DateRange) Empty() bool {
	return CivilDay(r.Start) > CivilDay(r.End)
}

// CivilDay encodes the calendar date of t as yyyymmdd.
func CivilDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if f.Dates != nil {
		return false
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Value holds the primary aggregation; Sums holds extra per-group sums and
// derived ratios requested by the caller.
type Group struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Value     float64            `json:"value"`
	Count     int                `json:"count"`
	Sums      map[string]float64 `json:"sums,omitempty"`
	SubGroups []Group            `json:"subGroups,omitempty"`
	View      RecordView         `json:"-"` // Sub-view for records in this group (zero-copy)
}

// Sum returns an extra sum by key, 0 when absent.
func (g Group) Sum(key string) float64 {
	return g.Sums[key]
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ID         string        `json:"id"`
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// KPI TYPES
// ============================================================================

// KPI is a single named scalar with its display form.
type KPI struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Unit    string  `json:"unit"` // "currency", "percent", "count", "units"
}

// Bin is one equal-width histogram bucket. Lower is inclusive; Upper is
// exclusive except for the last bin.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}
