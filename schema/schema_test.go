package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"fecha":            "fecha",
		" Subtotal COP ":   "subtotal_cop",
		"subtotalCOP":      "subtotal_cop",
		"Tamaño Cliente":   "tamano_cliente",
		"centro-logístico": "centro_logistico",
		"\ufeffventa_id":      "venta_id",
		"Días  Mora":       "dias_mora",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestResolveSpanishHeaders(t *testing.T) {
	headers := []string{
		"venta_id", "fecha", "cliente_id", "categoria", "subcategoria", "region",
		"segmento", "ejecutivo", "cantidad", "subtotal_cop", "margen_total_cop", "descuento_pct",
	}
	index, missing := Sales.Resolve(headers)

	assert.Empty(t, missing)
	assert.Equal(t, 1, index["date"])
	assert.Equal(t, 9, index["subtotal_amount"])
	assert.Equal(t, 10, index["margin_amount"])
	assert.Len(t, index, len(Sales.Columns))
}

func TestResolveEnglishHeadersAndMissing(t *testing.T) {
	index, missing := Receivables.Resolve([]string{"Invoice Date", "Region", "Status", "Balance Amount", "extra"})

	assert.Equal(t, 0, index["invoice_date"])
	assert.Equal(t, 3, index["balance_amount"])
	assert.Equal(t, []string{"days_overdue"}, missing)
}

func TestResolveFirstHeaderWins(t *testing.T) {
	index, _ := Customers.Resolve([]string{"cliente_id", "customer_id", "nombre_cliente", "estado"})
	assert.Equal(t, 0, index["id"])
}

func TestLookup(t *testing.T) {
	table, ok := Lookup(TableInventory)
	require.True(t, ok)
	assert.Equal(t, "inventario_andina.csv", table.File)

	col, ok := table.Column("snapshot_date")
	require.True(t, ok)
	assert.Equal(t, KindDate, col.Kind)

	_, ok = Lookup("payroll")
	assert.False(t, ok)
	assert.Len(t, Tables(), 6)
}
