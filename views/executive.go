package views

import (
	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/records"
)

// Executive KPI keys.
const (
	KPITotalSales         = "total_sales"
	KPIActiveCustomers    = "active_customers"
	KPITotalMargin        = "total_margin"
	KPIOverdueReceivables = "overdue_receivables"
)

// Executive chart ids.
const (
	ChartMonthlySales     = "monthly_sales"
	ChartSalesByRegion    = "sales_by_region"
	ChartTopSubcategories = "top_subcategories"
	ChartMarginByCategory = "margin_by_category"
)

const executiveTopSubcategories = 10

// Executive composes the overview tab: sales, margin, customers and overdue
// receivables. The active-customer count reads the whole customer
// collection and ignores every filter.
func Executive(in Input) Bundle {
	in = in.normalized()
	f := in.Formatter
	b := newBundle(TabExecutive, "Dashboard Gerencial - Visión General", in)

	active := engine.ApplyFilters(in.Customers, engine.Filters{
		Dimensions: map[string][]string{records.FieldActive: {"true"}},
	})

	b.KPIs = append(b.KPIs,
		engine.BuildKPI(KPITotalSales, "Ventas Totales", engine.SumMeasure(in.Sales, records.FieldSubtotal), "currency", f),
		engine.BuildKPI(KPIActiveCustomers, "Clientes Activos", float64(engine.CountDistinct(active, records.FieldCustomerID)), "count", f),
		engine.BuildKPI(KPITotalMargin, "Margen Total", engine.SumMeasure(in.Sales, records.FieldMargin), "currency", f),
		engine.BuildKPI(KPIOverdueReceivables, "Cartera Vencida", engine.SumMeasure(overdue(in.Receivables), records.FieldBalance), "currency", f),
	)

	monthly := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldMonth},
		Measure: records.FieldSubtotal,
		Sums:    []string{records.FieldMargin},
		SortBy:  "date_asc",
	}, in.Sales)

	byRegion := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldRegion},
		Measure: records.FieldSubtotal,
	}, in.Sales)

	topSubcategories := engine.TopN(in.Sales, records.FieldSubcategory, records.FieldSubtotal, executiveTopSubcategories)
	engine.SumInto(topSubcategories, records.FieldQuantity)

	byCategory := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldCategory},
		Measure: records.FieldSubtotal,
		Sums:    []string{records.FieldMargin},
	}, in.Sales)
	ratioInto(byCategory, records.FieldMarginPct, records.FieldMargin)

	b.Charts = append(b.Charts,
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartMonthlySales,
			Title:     "Tendencia de Ventas Mensual",
			ChartType: "line",
			XAxis:     "Mes",
			YAxis:     "Ventas (COP)",
			Series:    []engine.SeriesSpec{{Name: "Ventas"}, {Name: "Margen", Sum: records.FieldMargin}},
		}, monthly),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartSalesByRegion,
			Title:     "Distribución de Ventas por Región",
			ChartType: "treemap",
			Series:    []engine.SeriesSpec{{Name: "Ventas"}},
		}, byRegion),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartTopSubcategories,
			Title:     "Top 10 Productos por Ventas",
			ChartType: "hbar",
			XAxis:     "Ventas (COP)",
			YAxis:     "Producto",
			Series:    []engine.SeriesSpec{{Name: "Ventas"}, {Name: "Cantidad", Sum: records.FieldQuantity}},
		}, topSubcategories),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartMarginByCategory,
			Title:     "Margen Porcentual por Categoría",
			ChartType: "bar",
			XAxis:     "Categoría",
			YAxis:     "Margen (%)",
			Series:    []engine.SeriesSpec{{Name: "Margen (%)", Sum: records.FieldMarginPct}},
		}, byCategory),
	)

	return b
}
