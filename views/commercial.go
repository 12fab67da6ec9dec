package views

import (
	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/records"
)

// Commercial KPI keys. total_sales is shared with the executive tab.
const (
	KPIAvgMarginPct   = "avg_margin_pct"
	KPIAvgTicket      = "avg_ticket"
	KPIAvgDiscountPct = "avg_discount_pct"
)

// Commercial chart and table ids.
const (
	ChartSalesVsMargin          = "sales_vs_margin"
	ChartTopCustomers           = "top_customers"
	ChartTopExecutives          = "top_executives"
	ChartSalesBySegment         = "sales_by_segment"
	ChartMonthlySalesByCategory = "monthly_sales_by_category"
	TableExecutivePerformance   = "executive_performance"
)

const (
	commercialTopCustomers  = 15
	commercialTopExecutives = 10

	seriesShare = "share"
)

// Commercial composes the sales tab: margins, ticket size, customers,
// executives and segments.
func Commercial(in Input) Bundle {
	in = in.normalized()
	f := in.Formatter
	b := newBundle(TabCommercial, "Dashboard Comercial - Ventas, Margen y Clientes", in)

	b.KPIs = append(b.KPIs,
		engine.BuildKPI(KPITotalSales, "Ventas Totales", engine.SumMeasure(in.Sales, records.FieldSubtotal), "currency", f),
		engine.BuildKPI(KPIAvgMarginPct, "Margen Promedio", engine.AvgMeasure(in.Sales, records.FieldMarginPct), "percent", f),
		engine.BuildKPI(KPIAvgTicket, "Ticket Promedio", engine.AvgMeasure(in.Sales, records.FieldSubtotal), "currency", f),
		engine.BuildKPI(KPIAvgDiscountPct, "Descuento Promedio", engine.AvgMeasure(in.Sales, records.FieldDiscountPct), "percent", f),
	)

	byCategory := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldCategory},
		Measure: records.FieldSubtotal,
		Sums:    []string{records.FieldMargin},
	}, in.Sales)

	// Sales whose customer id resolved to no customer have no name to
	// rank by and are left out.
	named := engine.Where(in.Sales, engine.DimensionPresent(records.FieldCustomer))
	topCustomers := engine.TopN(named, records.FieldCustomer, records.FieldSubtotal, commercialTopCustomers)

	topExecutives := engine.TopN(in.Sales, records.FieldExecutive, records.FieldSubtotal, commercialTopExecutives)
	engine.SumInto(topExecutives, records.FieldMargin)
	ratioInto(topExecutives, records.FieldMarginPct, records.FieldMargin)

	bySegment := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldSegment},
		Measure: records.FieldSubtotal,
	}, in.Sales)
	shares := engine.WithShares(bySegment)
	for i := range bySegment {
		bySegment[i].Sums = map[string]float64{seriesShare: shares[i].Value}
	}

	monthlyByCategory := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldMonth, records.FieldCategory},
		Measure: records.FieldSubtotal,
		SortBy:  "date_asc",
	}, in.Sales)

	b.Charts = append(b.Charts,
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartSalesVsMargin,
			Title:     "Ventas vs Margen por Categoría",
			ChartType: "grouped_bar",
			XAxis:     "Categoría",
			YAxis:     "COP",
			Series:    []engine.SeriesSpec{{Name: "Ventas"}, {Name: "Margen", Sum: records.FieldMargin}},
		}, byCategory),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartTopCustomers,
			Title:     "Top 15 Clientes por Ventas",
			ChartType: "hbar",
			XAxis:     "Ventas (COP)",
			YAxis:     "Cliente",
			Series:    []engine.SeriesSpec{{Name: "Ventas"}},
		}, topCustomers),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartTopExecutives,
			Title:     "Top 10 Ejecutivos por Ventas",
			ChartType: "bar",
			XAxis:     "Ejecutivo",
			YAxis:     "Ventas (COP)",
			Series: []engine.SeriesSpec{
				{Name: "Ventas"},
				{Name: "Número de Ventas", Sum: "count"},
				{Name: "Margen (%)", Sum: records.FieldMarginPct},
			},
		}, topExecutives),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartSalesBySegment,
			Title:     "Distribución de Ventas por Segmento",
			ChartType: "pie",
			Series:    []engine.SeriesSpec{{Name: "Ventas"}, {Name: "Participación (%)", Sum: seriesShare}},
		}, bySegment),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartMonthlySalesByCategory,
			Title:     "Evolución de Ventas por Categoría",
			ChartType: "line",
			XAxis:     "Mes",
			YAxis:     "Ventas (COP)",
			Multi:     true,
		}, monthlyByCategory),
	)

	b.Tables = append(b.Tables, engine.BuildTable(engine.TableSpec{
		ID:         TableExecutivePerformance,
		Title:      "Desempeño por Ejecutivo",
		GroupLabel: "Ejecutivo",
		Columns: []engine.TableColumn{
			{Source: "value", Label: "Ventas", Type: "currency", Total: true},
			{Source: records.FieldMargin, Label: "Margen", Type: "currency", Total: true},
			{Source: "count", Label: "Número de Ventas", Type: "count", Total: true},
			{Source: records.FieldMarginPct, Label: "Margen (%)", Type: "percent"},
		},
	}, topExecutives, f))

	return b
}
