package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatterEnglish(t *testing.T) {
	f := NewFormatter(WithLocale("en"), WithCurrencySymbol("$"))

	assert.Equal(t, "$1,234,568", f.Currency(1234567.6))
	assert.Equal(t, "-$1,500", f.Currency(-1500))
	assert.Equal(t, "$0", f.Currency(0))
	assert.Equal(t, "12.5%", f.Percent(12.46))
	assert.Equal(t, "42", f.Integer(42.2))
	assert.Equal(t, "3.14", f.Format(3.14159, "number"))
}

func TestFormatterNonFinite(t *testing.T) {
	f := NewFormatter(WithLocale("en"))
	assert.Equal(t, "$0", f.Currency(math.NaN()))
	assert.Equal(t, "0.0%", f.Percent(math.Inf(1)))
}

func TestFormatterBadLocaleKeepsDefault(t *testing.T) {
	f := NewFormatter(WithLocale("not a locale!"))
	assert.NotEmpty(t, f.Currency(10))
}

func TestBuildKPI(t *testing.T) {
	kpi := BuildKPI("total_sales", "Total sales", math.NaN(), "currency", NewFormatter(WithLocale("en")))
	assert.Equal(t, "total_sales", kpi.Key)
	assert.Equal(t, 0.0, kpi.Value)
	assert.Equal(t, "$0", kpi.Display)
}
