package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// SCHEMA — Fixed shapes of the six Andina tables
// ============================================================================
// Each table lists its columns by canonical key. Source headers are matched
// after normalization (snake_case, accents stripped) against the key and
// its aliases, so both the English names and the original Spanish export
// headers ("fecha", "subtotal_cop") resolve to the same column.
// ============================================================================

// Kind is the value type of a column.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// Column describes one column of a table.
type Column struct {
	Key      string   `json:"key"`
	Aliases  []string `json:"aliases,omitempty"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
}

// Table describes one source table.
type Table struct {
	Name    string   `json:"name"`
	File    string   `json:"file"` // default file / object / table name
	Columns []Column `json:"columns"`
}

// Table names.
const (
	TableSales       = "sales"
	TableCustomers   = "customers"
	TableInventory   = "inventory"
	TableReceivables = "receivables"
	TableProducts    = "products"
	TableImports     = "imports"
)

func text(key string, required bool, aliases ...string) Column {
	return Column{Key: key, Aliases: aliases, Kind: KindText, Required: required}
}

func number(key string, required bool, aliases ...string) Column {
	return Column{Key: key, Aliases: aliases, Kind: KindNumber, Required: required}
}

func date(key string, required bool, aliases ...string) Column {
	return Column{Key: key, Aliases: aliases, Kind: KindDate, Required: required}
}

var (
	Sales = Table{
		Name: TableSales,
		File: "ventas_andina.csv",
		Columns: []Column{
			text("id", false, "venta_id", "sale_id"),
			date("date", true, "fecha"),
			text("customer_id", true, "cliente_id"),
			text("category", true, "categoria"),
			text("subcategory", true, "subcategoria"),
			text("region", true),
			text("segment", true, "segmento"),
			text("executive", true, "ejecutivo"),
			number("quantity", false, "cantidad"),
			number("subtotal_amount", true, "subtotal_cop", "subtotal"),
			number("margin_amount", true, "margen_total_cop", "margin"),
			number("discount_pct", false, "descuento_pct"),
		},
	}

	Customers = Table{
		Name: TableCustomers,
		File: "clientes_andina.csv",
		Columns: []Column{
			text("id", true, "cliente_id", "customer_id"),
			text("name", true, "nombre_cliente", "customer_name"),
			text("size_tier", false, "tamano_cliente", "customer_size"),
			date("signup_date", false, "fecha_alta"),
			text("status", true, "estado"),
		},
	}

	Inventory = Table{
		Name: TableInventory,
		File: "inventario_andina.csv",
		Columns: []Column{
			date("snapshot_date", true, "fecha_corte"),
			text("logistics_center", true, "centro_logistico"),
			text("category", true, "categoria"),
			text("subcategory", true, "subcategoria"),
			number("stock_units", true, "stock_unidades"),
			number("inventory_value", true, "valor_inventario_cop"),
		},
	}

	Receivables = Table{
		Name: TableReceivables,
		File: "cartera_andina.csv",
		Columns: []Column{
			text("customer_id", false, "cliente_id"),
			date("invoice_date", true, "fecha_factura"),
			date("due_date", false, "fecha_vencimiento"),
			text("region", true),
			text("status", true, "estado"),
			number("balance_amount", true, "saldo_cop"),
			number("days_overdue", true, "dias_mora"),
		},
	}

	Products = Table{
		Name: TableProducts,
		File: "productos_andina.csv",
		Columns: []Column{
			text("id", true, "producto_id", "sku"),
			text("name", false, "nombre_producto", "producto"),
			text("category", false, "categoria"),
			text("subcategory", false, "subcategoria"),
			number("list_price", false, "precio_lista_cop", "precio_cop"),
		},
	}

	Imports = Table{
		Name: TableImports,
		File: "importaciones_andina.csv",
		Columns: []Column{
			text("id", false, "importacion_id", "orden_id"),
			date("order_date", true, "fecha_orden"),
			date("arrival_date", false, "fecha_llegada"),
			text("supplier", false, "proveedor"),
			text("origin_country", false, "pais_origen"),
			text("category", false, "categoria"),
			number("value", false, "valor_cop", "valor_fob_cop"),
		},
	}
)

// Tables returns all six tables in load order.
func Tables() []Table {
	return []Table{Sales, Customers, Inventory, Receivables, Products, Imports}
}

// Lookup returns the table with the given name.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Column returns the column with the given key.
func (t Table) Column(key string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Resolve maps source headers to column keys. It returns the header index
// for every matched column and the keys of required columns that no header
// matched. Unknown headers are ignored; the first header matching a column
// wins.
func (t Table) Resolve(headers []string) (index map[string]int, missing []string) {
	names := make(map[string]string)
	for _, c := range t.Columns {
		names[Normalize(c.Key)] = c.Key
		for _, a := range c.Aliases {
			names[Normalize(a)] = c.Key
		}
	}

	index = make(map[string]int, len(t.Columns))
	for i, h := range headers {
		key, ok := names[Normalize(h)]
		if !ok {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	for _, c := range t.Columns {
		if _, ok := index[c.Key]; c.Required && !ok {
			missing = append(missing, c.Key)
		}
	}
	return index, missing
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// Normalize converts a header to its matching form:
// "Tamaño Cliente" → "tamano_cliente", "subtotalCOP" → "subtotal_cop".
func Normalize(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	if folded, _, err := transform.String(transform.Chain(norm.NFD, stripMarks, norm.NFC), s); err == nil {
		s = folded
	}

	var result strings.Builder
	prev := rune(0)
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
