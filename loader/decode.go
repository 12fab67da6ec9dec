package loader

import (
	"time"

	"github.com/andina-bi/dashboard/records"
)

// decoder collects the first error while reading one row, so each table's
// decode function reads like a plain field list.
type decoder struct {
	row row
	err error
}

func (d *decoder) text(key string) string { return d.row.text(key) }

func (d *decoder) number(key string) float64 {
	v, err := d.row.number(key)
	if err != nil && d.err == nil {
		d.err = err
	}
	return v
}

func (d *decoder) date(key string) time.Time {
	v, err := d.row.date(key)
	if err != nil && d.err == nil {
		d.err = err
	}
	return v
}

func decodeAll[T any](t *table, fn func(d *decoder) T) ([]T, error) {
	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		d := &decoder{row: r}
		v := fn(d)
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeSales(t *table) ([]records.Sale, error) {
	return decodeAll(t, func(d *decoder) records.Sale {
		return records.Sale{
			ID:          d.text("id"),
			Date:        d.date("date"),
			CustomerID:  d.text("customer_id"),
			Category:    d.text("category"),
			Subcategory: d.text("subcategory"),
			Region:      d.text("region"),
			Segment:     d.text("segment"),
			Executive:   d.text("executive"),
			Quantity:    d.number("quantity"),
			Subtotal:    d.number("subtotal_amount"),
			Margin:      d.number("margin_amount"),
			DiscountPct: d.number("discount_pct"),
		}
	})
}

func decodeCustomers(t *table) ([]records.Customer, error) {
	return decodeAll(t, func(d *decoder) records.Customer {
		return records.Customer{
			ID:         d.text("id"),
			Name:       d.text("name"),
			SizeTier:   d.text("size_tier"),
			SignupDate: d.date("signup_date"),
			Status:     d.text("status"),
		}
	})
}

func decodeInventory(t *table) ([]records.InventoryRecord, error) {
	return decodeAll(t, func(d *decoder) records.InventoryRecord {
		return records.InventoryRecord{
			SnapshotDate:    d.date("snapshot_date"),
			LogisticsCenter: d.text("logistics_center"),
			Category:        d.text("category"),
			Subcategory:     d.text("subcategory"),
			StockUnits:      d.number("stock_units"),
			Value:           d.number("inventory_value"),
		}
	})
}

func decodeReceivables(t *table) ([]records.Receivable, error) {
	return decodeAll(t, func(d *decoder) records.Receivable {
		return records.Receivable{
			CustomerID:  d.text("customer_id"),
			InvoiceDate: d.date("invoice_date"),
			DueDate:     d.date("due_date"),
			Region:      d.text("region"),
			Status:      d.text("status"),
			Balance:     d.number("balance_amount"),
			DaysOverdue: d.number("days_overdue"),
		}
	})
}

func decodeProducts(t *table) ([]records.Product, error) {
	return decodeAll(t, func(d *decoder) records.Product {
		return records.Product{
			ID:          d.text("id"),
			Name:        d.text("name"),
			Category:    d.text("category"),
			Subcategory: d.text("subcategory"),
			ListPrice:   d.number("list_price"),
		}
	})
}

func decodeImports(t *table) ([]records.ImportRecord, error) {
	return decodeAll(t, func(d *decoder) records.ImportRecord {
		return records.ImportRecord{
			ID:            d.text("id"),
			OrderDate:     d.date("order_date"),
			ArrivalDate:   d.date("arrival_date"),
			Supplier:      d.text("supplier"),
			OriginCountry: d.text("origin_country"),
			Category:      d.text("category"),
			Value:         d.number("value"),
		}
	})
}
