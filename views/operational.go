package views

import (
	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/records"
)

// Operational KPI keys.
const (
	KPIInventoryValue   = "inventory_value"
	KPIStockUnits       = "stock_units"
	KPIReceivablesTotal = "receivables_total"
	KPIOverdueShare     = "overdue_share"
)

// Operational chart and table ids.
const (
	ChartInventoryByCenter    = "inventory_by_center"
	ChartInventoryByCategory  = "inventory_by_category"
	ChartInventoryTrend       = "inventory_trend"
	ChartReceivablesByStatus  = "receivables_by_status"
	ChartOverdueByRegion      = "overdue_by_region"
	ChartOverdueDaysHistogram = "overdue_days_histogram"
	TableTopInventory         = "top_inventory"
)

const (
	operationalTopInventory = 10
	overdueHistogramBins    = 20
)

// Operational composes the inventory and receivables tab. Inventory KPIs
// and breakdowns read only the latest snapshot; the trend chart reads every
// snapshot in the filtered inventory.
func Operational(in Input) Bundle {
	in = in.normalized()
	f := in.Formatter
	b := newBundle(TabOperational, "Dashboard Operativo - Inventario y Cartera", in)

	current := engine.LatestSnapshot(in.Inventory, records.FieldSnapshotDate)
	late := overdue(in.Receivables)

	totalBalance := engine.SumMeasure(in.Receivables, records.FieldBalance)
	overdueBalance := engine.SumMeasure(late, records.FieldBalance)

	stock := engine.BuildKPI(KPIStockUnits, "Stock Total", engine.SumMeasure(current, records.FieldStockUnits), "units", f)
	stock.Display += " unidades"

	b.KPIs = append(b.KPIs,
		engine.BuildKPI(KPIInventoryValue, "Valor Inventario", engine.SumMeasure(current, records.FieldInventoryValue), "currency", f),
		stock,
		engine.BuildKPI(KPIReceivablesTotal, "Cartera Total", totalBalance, "currency", f),
		engine.BuildKPI(KPIOverdueShare, "Morosidad", engine.RatioPercent(overdueBalance, totalBalance), "percent", f),
	)

	byCenter := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldLogisticsCenter},
		Measure: records.FieldInventoryValue,
		Sums:    []string{records.FieldStockUnits},
	}, current)

	byCategory := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldCategory},
		Measure: records.FieldInventoryValue,
	}, current)

	trend := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldSnapshotDay},
		Measure: records.FieldInventoryValue,
		SortBy:  "date_asc",
	}, in.Inventory)

	byStatus := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldStatus},
		Measure: records.FieldBalance,
	}, in.Receivables)

	overdueByRegion := engine.Execute(engine.Query{
		GroupBy: []string{records.FieldRegion},
		Measure: records.FieldBalance,
		SortBy:  "value_desc",
	}, late)

	topInventory := engine.TopN(current, records.FieldSubcategory, records.FieldInventoryValue, operationalTopInventory)
	engine.SumInto(topInventory, records.FieldStockUnits)

	b.Charts = append(b.Charts,
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartInventoryByCenter,
			Title:     "Valor de Inventario por Centro Logístico",
			ChartType: "bar",
			XAxis:     "Centro Logístico",
			YAxis:     "Valor (COP)",
			Series:    []engine.SeriesSpec{{Name: "Valor"}, {Name: "Stock", Sum: records.FieldStockUnits}},
		}, byCenter),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartInventoryByCategory,
			Title:     "Distribución de Inventario por Categoría",
			ChartType: "pie",
			Series:    []engine.SeriesSpec{{Name: "Valor"}},
		}, byCategory),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartInventoryTrend,
			Title:     "Evolución del Valor de Inventario",
			ChartType: "line",
			XAxis:     "Fecha",
			YAxis:     "Valor (COP)",
			Series:    []engine.SeriesSpec{{Name: "Valor"}},
		}, trend),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartReceivablesByStatus,
			Title:     "Estado de Cartera",
			ChartType: "pie",
			Series:    []engine.SeriesSpec{{Name: "Saldo"}},
		}, byStatus),
		engine.BuildChart(engine.ChartSpec{
			ID:        ChartOverdueByRegion,
			Title:     "Cartera Vencida por Región",
			ChartType: "bar",
			XAxis:     "Región",
			YAxis:     "Saldo Vencido (COP)",
			Series:    []engine.SeriesSpec{{Name: "Saldo Vencido"}},
		}, overdueByRegion),
		engine.BuildHistogramChart(engine.ChartSpec{
			ID:     ChartOverdueDaysHistogram,
			Title:  "Distribución de Días de Morosidad",
			XAxis:  "Días de Mora",
			YAxis:  "Número de Documentos",
			Series: []engine.SeriesSpec{{Name: "Documentos"}},
		}, engine.Histogram(late, records.FieldDaysOverdue, overdueHistogramBins)),
	)

	b.Tables = append(b.Tables, engine.BuildTable(engine.TableSpec{
		ID:         TableTopInventory,
		Title:      "Top 10 Subcategorías por Valor de Inventario",
		GroupLabel: "Subcategoría",
		Columns: []engine.TableColumn{
			{Source: records.FieldStockUnits, Label: "Stock (unidades)", Type: "count", Total: true},
			{Source: "value", Label: "Valor Inventario", Type: "currency", Total: true},
		},
	}, topInventory, f))

	return b
}
