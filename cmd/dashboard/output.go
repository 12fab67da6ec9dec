package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/views"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Render or server failure
	ExitCommandError = 2 // Bad flags, config or data
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// ============================================================================
// CSV OUTPUT — One sheet-ready block per KPI list, chart and table
// ============================================================================
// Every block starts with a marker row ("tab", "kpi", "chart", "table") so
// the file can be split back into sections.
// ============================================================================

func writeCSV(w io.Writer, b views.Bundle) error {
	cw := csv.NewWriter(w)

	cw.Write([]string{"tab", string(b.Tab), b.Title, b.Period})
	for _, k := range b.KPIs {
		cw.Write([]string{"kpi", k.Key, k.Label, fmtNum(k.Value), k.Display})
	}
	for _, c := range b.Charts {
		writeChartCSV(cw, c)
	}
	for _, t := range b.Tables {
		writeTableCSV(cw, t)
	}

	cw.Flush()
	return cw.Error()
}

// writeChartCSV writes one row per label and one column per series. Labels
// keep first-occurrence order across series; a series without a point for a
// label leaves the cell empty.
func writeChartCSV(cw *csv.Writer, c *engine.ChartConfig) {
	cw.Write([]string{"chart", c.ID, c.Title, c.ChartType})

	xLabel := c.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	headers := []string{xLabel}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)

	var labels []string
	seen := make(map[string]bool)
	cells := make([]map[string]float64, len(c.Series))
	for i, s := range c.Series {
		cells[i] = make(map[string]float64, len(s.Data))
		for _, p := range s.Data {
			cells[i][p.Label] = p.Value
			if !seen[p.Label] {
				seen[p.Label] = true
				labels = append(labels, p.Label)
			}
		}
	}

	for _, label := range labels {
		row := []string{label}
		for i := range c.Series {
			if v, ok := cells[i][label]; ok {
				row = append(row, fmtNum(v))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
}

func writeTableCSV(cw *csv.Writer, t *engine.TableData) {
	cw.Write([]string{"table", t.ID, t.Title})

	headers := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		headers = append(headers, c.Label)
	}
	cw.Write(headers)
	for _, row := range t.Rows {
		cw.Write(row)
	}

	if t.Summary != nil && len(t.Columns) > 0 {
		row := []string{t.Summary.Label}
		for _, c := range t.Columns[1:] {
			row = append(row, t.Summary.Values[c.Key])
		}
		cw.Write(row)
	}
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

func writeText(w io.Writer, b views.Bundle) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\n", b.Title)
	fmt.Fprintf(tw, "Period: %s\n\n", b.Period)

	for _, k := range b.KPIs {
		fmt.Fprintf(tw, "  %s\t%s\n", k.Label, k.Display)
	}

	for _, c := range b.Charts {
		points := 0
		for _, s := range c.Series {
			points += len(s.Data)
		}
		fmt.Fprintf(tw, "\n%s [%s]\n", c.Title, c.ChartType)
		if points == 0 {
			fmt.Fprintf(tw, "  (no data)\n")
			continue
		}
		for _, s := range c.Series {
			parts := make([]string, 0, len(s.Data))
			for _, p := range s.Data {
				parts = append(parts, p.Label+"="+fmtNum(p.Value))
			}
			fmt.Fprintf(tw, "  %s\t%s\n", s.Name, strings.Join(parts, "  "))
		}
	}

	for _, t := range b.Tables {
		fmt.Fprintf(tw, "\n%s\n", t.Title)
		labels := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			labels = append(labels, c.Label)
		}
		fmt.Fprintf(tw, "  %s\n", strings.Join(labels, "\t"))
		for _, row := range t.Rows {
			fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
		}
	}

	return tw.Flush()
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
