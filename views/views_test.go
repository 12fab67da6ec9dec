package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/records"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testStore(t *testing.T) *records.Store {
	t.Helper()
	s, err := records.NewStore(records.Dataset{
		Sales: []records.Sale{
			{ID: "V1", Date: day("2024-01-10"), CustomerID: "C1", Category: "A", Subcategory: "Taladros", Region: "North", Segment: "Retail", Executive: "Ana", Quantity: 2, Subtotal: 100, Margin: 20, DiscountPct: 5},
			{ID: "V2", Date: day("2024-02-15"), CustomerID: "C2", Category: "B", Subcategory: "Cementos", Region: "South", Segment: "Corporate", Executive: "Luis", Quantity: 10, Subtotal: 200, Margin: 50},
			{ID: "V3", Date: day("2024-02-20"), CustomerID: "C9", Category: "A", Subcategory: "Taladros", Region: "North", Segment: "Retail", Executive: "Ana", Quantity: 1, Subtotal: 300, Margin: 30, DiscountPct: 10},
		},
		Customers: []records.Customer{
			{ID: "C1", Name: "Ferretería Uno", Status: "Activo"},
			{ID: "C2", Name: "Distribuidora Dos", Status: "Inactivo"},
			{ID: "C3", Name: "Obras Tres", Status: "Activo"},
		},
		Inventory: []records.InventoryRecord{
			{SnapshotDate: day("2024-05-31"), LogisticsCenter: "BOG", Category: "A", Subcategory: "Taladros", StockUnits: 10, Value: 1000},
			{SnapshotDate: day("2024-06-30"), LogisticsCenter: "BOG", Category: "A", Subcategory: "Taladros", StockUnits: 5, Value: 500},
			{SnapshotDate: day("2024-06-30"), LogisticsCenter: "MDE", Category: "B", Subcategory: "Cementos", StockUnits: 20, Value: 2000},
		},
		Receivables: []records.Receivable{
			{InvoiceDate: day("2024-01-05"), Region: "North", Status: "Vencida", Balance: 100, DaysOverdue: 45},
			{InvoiceDate: day("2024-02-05"), Region: "South", Status: "Al día", Balance: 300},
			{InvoiceDate: day("2024-02-10"), Region: "South", Status: "Vencida", Balance: 100, DaysOverdue: 12},
		},
	})
	require.NoError(t, err)
	return s
}

func testInput(t *testing.T) Input {
	s := testStore(t)
	return Input{
		Sales:       s.Sales(),
		Receivables: s.Receivables(),
		Inventory:   s.Inventory(),
		Customers:   s.Customers(),
		Formatter:   engine.NewFormatter(engine.WithLocale("en")),
	}
}

func kpi(t *testing.T, b Bundle, key string) engine.KPI {
	t.Helper()
	k, ok := b.KPI(key)
	require.True(t, ok, "kpi %s", key)
	return k
}

func chart(t *testing.T, b Bundle, id string) *engine.ChartConfig {
	t.Helper()
	c := b.Chart(id)
	require.NotNil(t, c, "chart %s", id)
	return c
}

func TestParseTab(t *testing.T) {
	for in, want := range map[string]Tab{
		"executive":   TabExecutive,
		"Gerencial":   TabExecutive,
		"comercial":   TabCommercial,
		" operativo ": TabOperational,
		"operational": TabOperational,
	} {
		got, err := ParseTab(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTab("finanzas")
	assert.ErrorIs(t, err, ErrUnknownTab)
}

func TestComposeUnknownTab(t *testing.T) {
	_, err := Compose(Tab("nope"), Input{})
	assert.ErrorIs(t, err, ErrUnknownTab)
}

func TestComposeEveryTab(t *testing.T) {
	in := testInput(t)
	for _, tab := range Tabs() {
		b, err := Compose(tab, in)
		require.NoError(t, err)
		assert.Equal(t, tab, b.Tab)
		assert.Len(t, b.KPIs, 4)
		assert.NotEmpty(t, b.Charts)
		assert.Equal(t, "2024-01 – 2024-02", b.Period)
	}
}

func TestExecutive(t *testing.T) {
	b := Executive(testInput(t))
	assert.Equal(t, "Dashboard Gerencial - Visión General", b.Title)

	assert.Equal(t, 600.0, kpi(t, b, KPITotalSales).Value)
	assert.Equal(t, "$600", kpi(t, b, KPITotalSales).Display)
	assert.Equal(t, 2.0, kpi(t, b, KPIActiveCustomers).Value)
	assert.Equal(t, 100.0, kpi(t, b, KPITotalMargin).Value)
	assert.Equal(t, 200.0, kpi(t, b, KPIOverdueReceivables).Value)

	monthly := chart(t, b, ChartMonthlySales)
	require.Len(t, monthly.Series, 2)
	assert.Equal(t, []engine.ChartPoint{{Label: "2024-01", Value: 100}, {Label: "2024-02", Value: 500}}, monthly.Series[0].Data)
	assert.Equal(t, []engine.ChartPoint{{Label: "2024-01", Value: 20}, {Label: "2024-02", Value: 80}}, monthly.Series[1].Data)

	top := chart(t, b, ChartTopSubcategories)
	assert.Equal(t, []engine.ChartPoint{{Label: "Taladros", Value: 400}, {Label: "Cementos", Value: 200}}, top.Series[0].Data)
	assert.Equal(t, []engine.ChartPoint{{Label: "Taladros", Value: 3}, {Label: "Cementos", Value: 10}}, top.Series[1].Data)

	margin := chart(t, b, ChartMarginByCategory)
	assert.Equal(t, []engine.ChartPoint{{Label: "A", Value: 12.5}, {Label: "B", Value: 25}}, margin.Series[0].Data)

	assert.Equal(t, "treemap", chart(t, b, ChartSalesByRegion).ChartType)
}

func TestExecutiveMonthlyBucketAfterDateFilter(t *testing.T) {
	in := testInput(t)
	in.Sales = engine.ApplyFilters(in.Sales, engine.Filters{
		Dates: &engine.DateRange{Field: records.FieldDate, Start: day("2024-01-01"), End: day("2024-01-31")},
	})

	b := Executive(in)
	monthly := chart(t, b, ChartMonthlySales)
	assert.Equal(t, []engine.ChartPoint{{Label: "2024-01", Value: 100}}, monthly.Series[0].Data)
	assert.Equal(t, []engine.ChartPoint{{Label: "2024-01", Value: 20}}, monthly.Series[1].Data)
	assert.Equal(t, "2024-01", b.Period)
}

func TestExecutiveActiveCustomersIgnoreFilters(t *testing.T) {
	in := testInput(t)
	in.Sales = engine.ApplyFilters(in.Sales, engine.Filters{
		Dimensions: map[string][]string{records.FieldCategory: {"B"}},
	})

	b := Executive(in)
	assert.Equal(t, 200.0, kpi(t, b, KPITotalSales).Value)
	assert.Equal(t, 2.0, kpi(t, b, KPIActiveCustomers).Value)
}

func TestExecutiveEmptySales(t *testing.T) {
	b := Executive(Input{})
	assert.Equal(t, 0.0, kpi(t, b, KPITotalSales).Value)
	assert.Equal(t, "No data", b.Period)
	assert.Empty(t, chart(t, b, ChartMonthlySales).Series)
	assert.NotNil(t, chart(t, b, ChartMonthlySales).Series)
}

func TestCommercial(t *testing.T) {
	b := Commercial(testInput(t))
	assert.Equal(t, "Dashboard Comercial - Ventas, Margen y Clientes", b.Title)

	assert.Equal(t, 600.0, kpi(t, b, KPITotalSales).Value)
	assert.InDelta(t, 18.333, kpi(t, b, KPIAvgMarginPct).Value, 0.001)
	assert.Equal(t, "18.3%", kpi(t, b, KPIAvgMarginPct).Display)
	assert.Equal(t, 200.0, kpi(t, b, KPIAvgTicket).Value)
	assert.InDelta(t, 5.0, kpi(t, b, KPIAvgDiscountPct).Value, 1e-9)

	// V3 belongs to no known customer and is not ranked.
	customers := chart(t, b, ChartTopCustomers)
	assert.Equal(t, []engine.ChartPoint{
		{Label: "Distribuidora Dos", Value: 200},
		{Label: "Ferretería Uno", Value: 100},
	}, customers.Series[0].Data)

	segments := chart(t, b, ChartSalesBySegment)
	require.Len(t, segments.Series, 2)
	assert.Equal(t, []engine.ChartPoint{{Label: "Retail", Value: 66.67}, {Label: "Corporate", Value: 33.33}}, segments.Series[1].Data)

	byCategory := chart(t, b, ChartMonthlySalesByCategory)
	require.Len(t, byCategory.Series, 2)
	assert.Equal(t, "A", byCategory.Series[0].Name)
	assert.Equal(t, []engine.ChartPoint{{Label: "2024-01", Value: 100}, {Label: "2024-02", Value: 300}}, byCategory.Series[0].Data)
	assert.Equal(t, []engine.ChartPoint{{Label: "2024-02", Value: 200}}, byCategory.Series[1].Data)

	table := b.Table(TableExecutivePerformance)
	require.NotNil(t, table)
	assert.Equal(t, [][]string{
		{"Ana", "$400", "$50", "2", "12.5%"},
		{"Luis", "$200", "$50", "1", "25.0%"},
	}, table.Rows)
	require.NotNil(t, table.Summary)
	assert.Equal(t, map[string]string{"value": "$600", records.FieldMargin: "$100", "count": "3"}, table.Summary.Values)
}

func TestOperational(t *testing.T) {
	b := Operational(testInput(t))
	assert.Equal(t, "Dashboard Operativo - Inventario y Cartera", b.Title)

	assert.Equal(t, 2500.0, kpi(t, b, KPIInventoryValue).Value)
	assert.Equal(t, "25 unidades", kpi(t, b, KPIStockUnits).Display)
	assert.Equal(t, 500.0, kpi(t, b, KPIReceivablesTotal).Value)
	assert.Equal(t, 40.0, kpi(t, b, KPIOverdueShare).Value)

	centers := chart(t, b, ChartInventoryByCenter)
	assert.Equal(t, []engine.ChartPoint{{Label: "BOG", Value: 500}, {Label: "MDE", Value: 2000}}, centers.Series[0].Data)
	assert.Equal(t, []engine.ChartPoint{{Label: "BOG", Value: 5}, {Label: "MDE", Value: 20}}, centers.Series[1].Data)

	trend := chart(t, b, ChartInventoryTrend)
	assert.Equal(t, []engine.ChartPoint{{Label: "2024-05-31", Value: 1000}, {Label: "2024-06-30", Value: 2500}}, trend.Series[0].Data)

	regions := chart(t, b, ChartOverdueByRegion)
	assert.Equal(t, []engine.ChartPoint{{Label: "North", Value: 100}, {Label: "South", Value: 100}}, regions.Series[0].Data)

	hist := chart(t, b, ChartOverdueDaysHistogram)
	require.Len(t, hist.Series, 1)
	points := hist.Series[0].Data
	require.Len(t, points, 20)
	assert.Equal(t, 1.0, points[0].Value)
	assert.Equal(t, 1.0, points[19].Value)

	table := b.Table(TableTopInventory)
	require.NotNil(t, table)
	assert.Equal(t, [][]string{{"Cementos", "20", "$2,000"}, {"Taladros", "5", "$500"}}, table.Rows)
}

func TestOperationalZeroBalances(t *testing.T) {
	s, err := records.NewStore(records.Dataset{
		Receivables: []records.Receivable{
			{InvoiceDate: day("2024-01-05"), Region: "North", Balance: 0, DaysOverdue: 30},
			{InvoiceDate: day("2024-01-06"), Region: "South", Balance: 0},
		},
	})
	require.NoError(t, err)

	b := Operational(Input{Receivables: s.Receivables()})
	share := kpi(t, b, KPIOverdueShare)
	assert.Equal(t, 0.0, share.Value)
	assert.Equal(t, "0.0%", share.Display)
	assert.Equal(t, 0.0, kpi(t, b, KPIInventoryValue).Value)
	assert.Empty(t, chart(t, b, ChartInventoryTrend).Series)
}

func TestTopNBounds(t *testing.T) {
	sales := make([]records.Sale, 0, 20)
	for i := 0; i < 20; i++ {
		sales = append(sales, records.Sale{
			Date:      day("2024-03-01"),
			Executive: string(rune('A' + i)),
			Subtotal:  float64(i + 1),
		})
	}
	s, err := records.NewStore(records.Dataset{Sales: sales})
	require.NoError(t, err)

	b := Commercial(Input{Sales: s.Sales()})
	execs := chart(t, b, ChartTopExecutives).Series[0].Data
	require.Len(t, execs, 10)
	assert.Equal(t, "T", execs[0].Label)
	assert.Equal(t, 20.0, execs[0].Value)
	assert.Empty(t, chart(t, b, ChartTopCustomers).Series)
}
