package records

import (
	"strconv"
	"time"

	"github.com/andina-bi/dashboard/engine"
)

// Field keys exposed by the record views.
const (
	FieldDate         = "date"
	FieldMonth        = "month"
	FieldYear         = "year"
	FieldCustomerID   = "customer_id"
	FieldCategory     = "category"
	FieldSubcategory  = "subcategory"
	FieldRegion       = "region"
	FieldSegment      = "segment"
	FieldExecutive    = "executive"
	FieldCustomer     = "customer_name"
	FieldCustomerTier = "customer_size_tier"
	FieldQuantity     = "quantity"
	FieldSubtotal     = "subtotal"
	FieldMargin       = "margin"
	FieldMarginPct    = "margin_pct"
	FieldDiscountPct  = "discount_pct"

	FieldInvoiceDate    = "invoice_date"
	FieldDueDate        = "due_date"
	FieldStatus         = "status"
	FieldBalance        = "balance"
	FieldOverdueBalance = "overdue_balance"
	FieldDaysOverdue    = "days_overdue"

	FieldSnapshotDate    = "snapshot_date"
	FieldSnapshotDay     = "snapshot_day"
	FieldLogisticsCenter = "logistics_center"
	FieldStockUnits      = "stock_units"
	FieldInventoryValue  = "inventory_value"

	FieldName       = "name"
	FieldSizeTier   = "size_tier"
	FieldSignupDate = "signup_date"
	FieldActive     = "active"
)

// ============================================================================
// ADAPTERS — Zero-copy RecordViews over the typed collections
// ============================================================================

var salesAdapter = engine.NewDomainAdapter[Sale]().
	Dimension(FieldCategory, func(s Sale) string { return s.Category }).
	Dimension(FieldSubcategory, func(s Sale) string { return s.Subcategory }).
	Dimension(FieldRegion, func(s Sale) string { return s.Region }).
	Dimension(FieldSegment, func(s Sale) string { return s.Segment }).
	Dimension(FieldExecutive, func(s Sale) string { return s.Executive }).
	Dimension(FieldCustomerID, func(s Sale) string { return s.CustomerID }).
	Dimension(FieldCustomer, func(s Sale) string { return s.CustomerName }).
	Dimension(FieldCustomerTier, func(s Sale) string { return s.CustomerSizeTier }).
	Dimension(FieldMonth, func(s Sale) string { return s.Month }).
	Dimension(FieldYear, func(s Sale) string { return strconv.Itoa(s.Year) }).
	Measure(FieldSubtotal, func(s Sale) float64 { return s.Subtotal }).
	Measure(FieldMargin, func(s Sale) float64 { return s.Margin }).
	Measure(FieldMarginPct, func(s Sale) float64 { return s.MarginPct }).
	Measure(FieldDiscountPct, func(s Sale) float64 { return s.DiscountPct }).
	Measure(FieldQuantity, func(s Sale) float64 { return s.Quantity }).
	Date(FieldDate, func(s Sale) time.Time { return s.Date })

var receivablesAdapter = engine.NewDomainAdapter[Receivable]().
	Dimension(FieldRegion, func(r Receivable) string { return r.Region }).
	Dimension(FieldStatus, func(r Receivable) string { return r.Status }).
	Dimension(FieldCustomerID, func(r Receivable) string { return r.CustomerID }).
	Measure(FieldBalance, func(r Receivable) float64 { return r.Balance }).
	Measure(FieldOverdueBalance, func(r Receivable) float64 {
		if r.Overdue() {
			return r.Balance
		}
		return 0
	}).
	Measure(FieldDaysOverdue, func(r Receivable) float64 { return r.DaysOverdue }).
	Date(FieldInvoiceDate, func(r Receivable) time.Time { return r.InvoiceDate }).
	Date(FieldDueDate, func(r Receivable) time.Time { return r.DueDate })

var inventoryAdapter = engine.NewDomainAdapter[InventoryRecord]().
	Dimension(FieldLogisticsCenter, func(r InventoryRecord) string { return r.LogisticsCenter }).
	Dimension(FieldCategory, func(r InventoryRecord) string { return r.Category }).
	Dimension(FieldSubcategory, func(r InventoryRecord) string { return r.Subcategory }).
	Dimension(FieldSnapshotDay, func(r InventoryRecord) string { return engine.DayKey(r.SnapshotDate) }).
	Measure(FieldStockUnits, func(r InventoryRecord) float64 { return r.StockUnits }).
	Measure(FieldInventoryValue, func(r InventoryRecord) float64 { return r.Value }).
	Date(FieldSnapshotDate, func(r InventoryRecord) time.Time { return r.SnapshotDate })

var customersAdapter = engine.NewDomainAdapter[Customer]().
	Dimension(FieldCustomerID, func(c Customer) string { return c.ID }).
	Dimension(FieldName, func(c Customer) string { return c.Name }).
	Dimension(FieldSizeTier, func(c Customer) string { return c.SizeTier }).
	Dimension(FieldStatus, func(c Customer) string { return c.Status }).
	Dimension(FieldActive, func(c Customer) string { return strconv.FormatBool(c.Active()) }).
	Date(FieldSignupDate, func(c Customer) time.Time { return c.SignupDate })
