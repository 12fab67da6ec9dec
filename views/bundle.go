// Package views composes the three dashboard tabs (executive, commercial,
// operational) from filtered record views. Every composer is a pure
// function: it reads its Input and returns a new Bundle.
package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/records"
)

// ErrUnknownTab is returned for a tab id that names no view.
var ErrUnknownTab = errors.New("unknown tab")

// Tab identifies one dashboard view.
type Tab string

const (
	TabExecutive   Tab = "executive"
	TabCommercial  Tab = "commercial"
	TabOperational Tab = "operational"
)

// Tabs lists the views in display order.
func Tabs() []Tab { return []Tab{TabExecutive, TabCommercial, TabOperational} }

// ParseTab accepts the English ids and the original Spanish tab ids
// ("gerencial", "comercial", "operativo").
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "executive", "gerencial":
		return TabExecutive, nil
	case "commercial", "comercial":
		return TabCommercial, nil
	case "operational", "operativo":
		return TabOperational, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Input is what a composer reads. Sales, Receivables and Inventory are the
// filtered collections; Customers is the whole, unfiltered customer
// collection. A nil view is treated as empty.
type Input struct {
	Sales       engine.RecordView
	Receivables engine.RecordView
	Inventory   engine.RecordView
	Customers   engine.RecordView
	Formatter   *engine.Formatter
}

// Bundle is the rendered content of one tab.
type Bundle struct {
	Tab    Tab                   `json:"tab"`
	Title  string                `json:"title"`
	Period string                `json:"period"`
	KPIs   []engine.KPI          `json:"kpis"`
	Charts []*engine.ChartConfig `json:"charts"`
	Tables []*engine.TableData   `json:"tables"`
}

// KPI returns the KPI with the given key.
func (b Bundle) KPI(key string) (engine.KPI, bool) {
	for _, k := range b.KPIs {
		if k.Key == key {
			return k, true
		}
	}
	return engine.KPI{}, false
}

// Chart returns the chart with the given id, or nil.
func (b Bundle) Chart(id string) *engine.ChartConfig {
	for _, c := range b.Charts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Table returns the table with the given id, or nil.
func (b Bundle) Table(id string) *engine.TableData {
	for _, t := range b.Tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Compose renders the given tab.
func Compose(tab Tab, in Input) (Bundle, error) {
	switch tab {
	case TabExecutive:
		return Executive(in), nil
	case TabCommercial:
		return Commercial(in), nil
	case TabOperational:
		return Operational(in), nil
	}
	return Bundle{}, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
}

// ============================================================================
// HELPERS
// ============================================================================

var emptyView = engine.NewSliceView(nil)

func (in Input) normalized() Input {
	if in.Sales == nil {
		in.Sales = emptyView
	}
	if in.Receivables == nil {
		in.Receivables = emptyView
	}
	if in.Inventory == nil {
		in.Inventory = emptyView
	}
	if in.Customers == nil {
		in.Customers = emptyView
	}
	if in.Formatter == nil {
		in.Formatter = engine.NewFormatter()
	}
	return in
}

func newBundle(tab Tab, title string, in Input) Bundle {
	return Bundle{
		Tab:    tab,
		Title:  title,
		Period: engine.DerivePeriod(in.Sales, records.FieldDate),
		KPIs:   []engine.KPI{},
		Charts: []*engine.ChartConfig{},
		Tables: []*engine.TableData{},
	}
}

// ratioInto stores numerator/Value×100 under key in every group.
func ratioInto(groups []engine.Group, key, numerator string) {
	for i := range groups {
		if groups[i].Sums == nil {
			groups[i].Sums = make(map[string]float64)
		}
		groups[i].Sums[key] = engine.RatioPercent(groups[i].Sum(numerator), groups[i].Value)
	}
}

// overdue is the subset of receivables with days_overdue > 0.
func overdue(receivables engine.RecordView) engine.RecordView {
	return engine.Where(receivables, engine.MeasureAbove(records.FieldDaysOverdue, 0))
}
