package engine

import (
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a TableSpec + Groups
// ============================================================================
// One row per group. Columns read Group.Value, Group.Count or an entry of
// Group.Sums; the first column is always the group label.
// ============================================================================

// TableSpec describes a grouped table.
type TableSpec struct {
	ID         string
	Title      string
	GroupLabel string
	Columns    []TableColumn
}

// TableColumn maps a Group field to a column. Source is "value", "count",
// or a key of Group.Sums. Type drives formatting: "currency", "percent",
// "number", "count".
type TableColumn struct {
	Source string
	Label  string
	Type   string
	// Total adds this column's total to the summary row.
	Total bool
}

// BuildTable produces a TableData from a TableSpec and groups.
// Cells are formatted with f; a nil Formatter uses plain two-decimal output.
func BuildTable(spec TableSpec, groups []Group, f *Formatter) *TableData {
	groupLabel := spec.GroupLabel
	if groupLabel == "" {
		groupLabel = "Group"
	}

	columns := make([]Column, 0, len(spec.Columns)+1)
	columns = append(columns, Column{Key: "group", Label: groupLabel, Type: "text", Align: "left"})
	for _, c := range spec.Columns {
		columns = append(columns, Column{Key: c.Source, Label: c.Label, Type: c.Type, Align: "right"})
	}

	rows := make([][]string, 0, len(groups))
	totals := make(map[string]float64)
	for _, g := range groups {
		row := make([]string, 0, len(columns))
		row = append(row, g.Label)
		for _, c := range spec.Columns {
			v := columnValue(g, c.Source)
			row = append(row, formatCell(f, v, c.Type))
			if c.Total {
				totals[c.Source] += v
			}
		}
		rows = append(rows, row)
	}

	table := &TableData{
		ID:      spec.ID,
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
	}

	if len(totals) > 0 && len(groups) > 0 {
		values := make(map[string]string, len(totals))
		for _, c := range spec.Columns {
			if c.Total {
				values[c.Source] = formatCell(f, totals[c.Source], c.Type)
			}
		}
		table.Summary = &Summary{Label: "Total", Values: values}
	}

	return table
}

func columnValue(g Group, source string) float64 {
	switch source {
	case "value":
		return g.Value
	case "count":
		return float64(g.Count)
	default:
		return g.Sum(source)
	}
}

func formatCell(f *Formatter, v float64, typ string) string {
	if f == nil {
		if typ == "count" {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return f.Format(v, typ)
}
