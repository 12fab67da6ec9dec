package engine

import "fmt"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a ChartSpec + Groups
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#1f77b4", "#2ca02c", "#ff7f0e", "#d62728", "#17a2b8",
	"#8B5CF6", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartSpec describes one chart independent of its data.
type ChartSpec struct {
	ID        string
	Title     string
	ChartType string // "bar", "line", "pie", "treemap", "grouped_bar", "histogram", "hbar"
	XAxis     string
	YAxis     string
	// Series lists the values to plot per group. Empty means a single
	// series of Group.Value named "Value".
	Series []SeriesSpec
	// Multi plots one series per sub-group key (second groupBy dimension).
	Multi bool
}

// SeriesSpec names one series and where its values come from.
// An empty Sum key plots Group.Value; "count" plots Group.Count.
type SeriesSpec struct {
	Name string
	Sum  string
}

// BuildChart produces a ChartConfig from a ChartSpec and aggregated groups.
// No groups yields a chart with no series, never nil.
func BuildChart(spec ChartSpec, groups []Group) *ChartConfig {
	chartType := spec.ChartType
	if chartType == "" {
		chartType = "bar"
	}

	config := &ChartConfig{
		ID:         spec.ID,
		ChartType:  chartType,
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		Series:     []ChartSeries{},
		ShowLegend: true,
		ShowGrid:   chartType != "pie" && chartType != "treemap",
	}

	if len(groups) == 0 {
		return config
	}

	if spec.Multi && hasSubGroups(groups) {
		config.Series = buildMultiSeries(groups)
	} else {
		config.Series = buildSeries(groups, spec.Series)
	}

	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildHistogramChart plots bin counts, one point per bin.
func BuildHistogramChart(spec ChartSpec, bins []Bin) *ChartConfig {
	config := &ChartConfig{
		ID:        spec.ID,
		ChartType: "histogram",
		Title:     spec.Title,
		XAxis:     spec.XAxis,
		YAxis:     spec.YAxis,
		Series:    []ChartSeries{},
		ShowGrid:  true,
	}
	if len(bins) == 0 {
		return config
	}

	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%g–%g", RoundTo2(b.Lower), RoundTo2(b.Upper)),
			Value: float64(b.Count),
		})
	}
	name := "Count"
	if len(spec.Series) > 0 {
		name = spec.Series[0].Name
	}
	config.Series = []ChartSeries{{Name: name, Data: points, Color: defaultColors[0]}}
	config.Colors = assignColors(1)
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSeries(groups []Group, specs []SeriesSpec) []ChartSeries {
	if len(specs) == 0 {
		specs = []SeriesSpec{{Name: "Value"}}
	}

	series := make([]ChartSeries, 0, len(specs))
	for i, s := range specs {
		points := make([]ChartPoint, 0, len(groups))
		for _, g := range groups {
			points = append(points, ChartPoint{
				Label: g.Label,
				Value: RoundTo2(seriesValue(g, s)),
			})
		}
		series = append(series, ChartSeries{
			Name:  s.Name,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return series
}

func seriesValue(g Group, s SeriesSpec) float64 {
	switch s.Sum {
	case "":
		return g.Value
	case "count":
		return float64(g.Count)
	default:
		return g.Sum(s.Sum)
	}
}

// buildMultiSeries emits one series per sub-group key in first-occurrence
// order. A series only has points for the primary groups where its key
// occurs; missing combinations are not zero-filled.
func buildMultiSeries(groups []Group) []ChartSeries {
	var subKeys []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			if !seen[sg.Key] {
				seen[sg.Key] = true
				subKeys = append(subKeys, sg.Key)
			}
		}
	}

	seriesMap := make(map[string][]ChartPoint, len(subKeys))
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			seriesMap[sg.Key] = append(seriesMap[sg.Key], ChartPoint{
				Label: g.Label,
				Value: RoundTo2(sg.Value),
			})
		}
	}

	series := make([]ChartSeries, 0, len(subKeys))
	for i, key := range subKeys {
		series = append(series, ChartSeries{
			Name:  key,
			Data:  seriesMap[key],
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return series
}

func hasSubGroups(groups []Group) bool {
	for _, g := range groups {
		if len(g.SubGroups) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
