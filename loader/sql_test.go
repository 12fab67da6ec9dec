package loader

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sqliteFixture = []string{
	`CREATE TABLE ventas_andina (venta_id TEXT, fecha TEXT, cliente_id TEXT, categoria TEXT, subcategoria TEXT,
		region TEXT, segmento TEXT, ejecutivo TEXT, cantidad INTEGER, subtotal_cop REAL, margen_total_cop REAL, descuento_pct REAL)`,
	`INSERT INTO ventas_andina VALUES
		('V001', '2024-01-10', 'C001', 'Herramientas', 'Eléctricas', 'Andina', 'Retail', 'Ana Gómez', 2, 100000, 20000, 5),
		('V002', '2024-02-15', 'C002', 'Construcción', 'Cementos', 'Caribe', 'Corporativo', 'Luis Pérez', 10, 200000.5, 50000, NULL)`,
	`CREATE TABLE clientes_andina (cliente_id TEXT, nombre_cliente TEXT, tamano_cliente TEXT, fecha_alta TEXT, estado TEXT)`,
	`INSERT INTO clientes_andina VALUES ('C001', 'Ferretería El Tornillo', 'Pequeño', '2022-03-01', 'Activo')`,
	`CREATE TABLE inventario_andina (fecha_corte TEXT, centro_logistico TEXT, categoria TEXT, subcategoria TEXT,
		stock_unidades INTEGER, valor_inventario_cop REAL)`,
	`INSERT INTO inventario_andina VALUES ('2024-06-30', 'Bogotá', 'Herramientas', 'Eléctricas', 80, 4000000)`,
	`CREATE TABLE cartera (fecha_factura TEXT, region TEXT, estado TEXT, saldo_cop REAL, dias_mora INTEGER)`,
	`INSERT INTO cartera VALUES ('2024-01-10', 'Andina', 'Vencida', 100000, 45)`,
	`CREATE TABLE productos_andina (producto_id TEXT, nombre_producto TEXT)`,
	`CREATE TABLE importaciones_andina (fecha_orden TEXT, fecha_llegada TEXT)`,
}

func newSQLiteFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "andina.db")
	db, err := sql.Open(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range sqliteFixture {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func TestSQLSourceSQLite(t *testing.T) {
	path := newSQLiteFixture(t)
	src := SQLSource{Driver: DriverSQLite, DSN: path, Tables: map[string]string{"receivables": "cartera"}}

	ds, err := src.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Sales, 2)
	assert.Equal(t, "V001", ds.Sales[0].ID)
	assert.Equal(t, 2.0, ds.Sales[0].Quantity)
	assert.Equal(t, 200000.5, ds.Sales[1].Subtotal)
	assert.Equal(t, 0.0, ds.Sales[1].DiscountPct, "NULL optional number")
	assert.Equal(t, day("2024-02-15"), ds.Sales[1].Date.UTC())

	require.Len(t, ds.Receivables, 1)
	assert.Equal(t, 45.0, ds.Receivables[0].DaysOverdue)
	assert.Equal(t, "Bogotá", ds.Inventory[0].LogisticsCenter)
	assert.Empty(t, ds.Products)
	assert.Empty(t, ds.Imports)
}

func TestSQLSourceMissingTable(t *testing.T) {
	path := newSQLiteFixture(t)
	_, err := SQLSource{Driver: DriverSQLite, DSN: path}.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query cartera_andina")
}

func TestQuoteIdentAndRedact(t *testing.T) {
	assert.Equal(t, `"ventas"`, quoteIdent("ventas"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))

	assert.Equal(t, "postgres://bi:***@db:5432/andina", redact("postgres://bi:pw@db:5432/andina"))
	assert.Equal(t, "postgres://bi@db/andina", redact("postgres://bi@db/andina"))
	assert.Equal(t, "file.db", redact("file.db"))
}
