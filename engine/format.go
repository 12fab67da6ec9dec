package engine

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// Formatter renders KPI and table values for display.
// Safe for concurrent use; build one per process.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a Formatter. Defaults: es-CO grouping, "$" prefix.
func NewFormatter(opts ...Option) *Formatter {
	cfg := applyOptions(opts)
	return &Formatter{
		printer: message.NewPrinter(cfg.Locale),
		symbol:  cfg.CurrencySymbol,
	}
}

// Format dispatches on a unit: "currency", "percent", "count", "units",
// anything else is a plain two-decimal number.
func (f *Formatter) Format(v float64, unit string) string {
	switch unit {
	case "currency":
		return f.Currency(v)
	case "percent":
		return f.Percent(v)
	case "count", "units":
		return f.Integer(v)
	default:
		return strconv.FormatFloat(finite(v), 'f', 2, 64)
	}
}

// Currency rounds to whole units and groups digits per locale: "$1.234.567".
func (f *Formatter) Currency(v float64) string {
	n := roundWhole(v)
	if n < 0 {
		return "-" + f.symbol + f.printer.Sprintf("%d", -n)
	}
	return f.symbol + f.printer.Sprintf("%d", n)
}

// Integer rounds to whole units with locale digit grouping.
func (f *Formatter) Integer(v float64) string {
	return f.printer.Sprintf("%d", roundWhole(v))
}

// Percent renders one decimal: "12.5%".
func (f *Formatter) Percent(v float64) string {
	return strconv.FormatFloat(finite(v), 'f', 1, 64) + "%"
}

func roundWhole(v float64) int64 {
	return decimal.NewFromFloat(finite(v)).Round(0).IntPart()
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
