// Package records holds the immutable in-memory Record Store: the six
// Andina collections with normalized dates, derived sale fields and the
// sales→customer enrichment, exposed as engine RecordViews.
package records

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andina-bi/dashboard/engine"
)

// ErrDuplicateCustomer is returned by NewStore when two customers share an id.
var ErrDuplicateCustomer = errors.New("duplicate customer id")

// Store is the loaded data set. It is built once by NewStore and never
// modified afterwards, so it is safe for concurrent readers.
type Store struct {
	id       uuid.UUID
	loadedAt time.Time

	sales       []Sale
	customers   []Customer
	inventory   []InventoryRecord
	receivables []Receivable
	products    []Product
	imports     []ImportRecord

	customerIdx map[string]int
	productIdx  map[string]int

	salesView       engine.RecordView
	receivablesView engine.RecordView
	inventoryView   engine.RecordView
	customersView   engine.RecordView

	facets FacetOptions
}

// NewStore copies the dataset, normalizes every date to a calendar day,
// derives margin_pct, month and year on each sale and joins each sale with
// its customer. The input slices are not retained.
func NewStore(ds Dataset) (*Store, error) {
	s := &Store{
		loadedAt:    time.Now().UTC(),
		sales:       append([]Sale(nil), ds.Sales...),
		customers:   append([]Customer(nil), ds.Customers...),
		inventory:   append([]InventoryRecord(nil), ds.Inventory...),
		receivables: append([]Receivable(nil), ds.Receivables...),
		products:    append([]Product(nil), ds.Products...),
		imports:     append([]ImportRecord(nil), ds.Imports...),
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("records: load id: %w", err)
	}
	s.id = id

	s.customerIdx = make(map[string]int, len(s.customers))
	for i := range s.customers {
		c := &s.customers[i]
		c.SignupDate = civil(c.SignupDate)
		if _, dup := s.customerIdx[c.ID]; dup {
			return nil, fmt.Errorf("records: customer %q: %w", c.ID, ErrDuplicateCustomer)
		}
		s.customerIdx[c.ID] = i
	}

	s.productIdx = make(map[string]int, len(s.products))
	for i, p := range s.products {
		if _, dup := s.productIdx[p.ID]; !dup {
			s.productIdx[p.ID] = i
		}
	}

	unmatched := 0
	for i := range s.sales {
		if !s.deriveSale(&s.sales[i]) {
			unmatched++
		}
	}
	for i := range s.inventory {
		s.inventory[i].SnapshotDate = civil(s.inventory[i].SnapshotDate)
	}
	for i := range s.receivables {
		r := &s.receivables[i]
		r.InvoiceDate = civil(r.InvoiceDate)
		r.DueDate = civil(r.DueDate)
	}
	for i := range s.imports {
		r := &s.imports[i]
		r.OrderDate = civil(r.OrderDate)
		r.ArrivalDate = civil(r.ArrivalDate)
	}

	s.salesView = salesAdapter.Bind(s.sales)
	s.receivablesView = receivablesAdapter.Bind(s.receivables)
	s.inventoryView = inventoryAdapter.Bind(s.inventory)
	s.customersView = customersAdapter.Bind(s.customers)
	s.facets = s.buildFacets()

	slog.Info("records: store loaded",
		"id", s.id, "sales", len(s.sales), "customers", len(s.customers),
		"inventory", len(s.inventory), "receivables", len(s.receivables),
		"products", len(s.products), "imports", len(s.imports),
		"unmatchedSales", unmatched)

	return s, nil
}

// deriveSale fills the derived and enrichment fields. It reports whether the
// customer id resolved.
func (s *Store) deriveSale(sale *Sale) bool {
	sale.Date = civil(sale.Date)
	sale.Month = engine.MonthKey(sale.Date)
	sale.Year = sale.Date.Year()
	sale.MarginPct = MarginPct(sale.Margin, sale.Subtotal)

	sale.CustomerName, sale.CustomerSizeTier, sale.HasCustomer = "", "", false
	i, ok := s.customerIdx[sale.CustomerID]
	if !ok {
		return false
	}
	sale.CustomerName = s.customers[i].Name
	sale.CustomerSizeTier = s.customers[i].SizeTier
	sale.HasCustomer = true
	return true
}

// MarginPct is margin/subtotal×100 rounded half away from zero to two
// decimals, or 0 when subtotal is 0.
func MarginPct(margin, subtotal float64) float64 {
	if subtotal == 0 {
		return 0
	}
	pct, _ := decimal.NewFromFloat(margin).
		Div(decimal.NewFromFloat(subtotal)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return pct
}

func civil(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Store) buildFacets() FacetOptions {
	f := FacetOptions{
		Categories:       engine.UniqueValues(s.salesView, FieldCategory),
		Regions:          engine.UniqueValues(s.salesView, FieldRegion),
		Segments:         engine.UniqueValues(s.salesView, FieldSegment),
		LogisticsCenters: engine.UniqueValues(s.inventoryView, FieldLogisticsCenter),
	}
	f.MinDate, f.MaxDate, _ = engine.DateBounds(s.salesView, FieldDate)
	return f
}

// ============================================================================
// ACCESSORS
// ============================================================================

// ID is the unique id of this load.
func (s *Store) ID() uuid.UUID { return s.id }

// LoadedAt is when the store was built.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

func (s *Store) Sales() engine.RecordView       { return s.salesView }
func (s *Store) Receivables() engine.RecordView { return s.receivablesView }
func (s *Store) Inventory() engine.RecordView   { return s.inventoryView }
func (s *Store) Customers() engine.RecordView   { return s.customersView }

// Customer looks up a customer by id.
func (s *Store) Customer(id string) (Customer, bool) {
	i, ok := s.customerIdx[id]
	if !ok {
		return Customer{}, false
	}
	return s.customers[i], true
}

// Product looks up a product by id.
func (s *Store) Product(id string) (Product, bool) {
	i, ok := s.productIdx[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Facets returns the selectable facet values (sorted) and the sales date span.
func (s *Store) Facets() FacetOptions {
	f := s.facets
	f.Categories = append([]string(nil), f.Categories...)
	f.Regions = append([]string(nil), f.Regions...)
	f.Segments = append([]string(nil), f.Segments...)
	f.LogisticsCenters = append([]string(nil), f.LogisticsCenters...)
	return f
}

// SalesDateRange is the min and max sale date. ok is false with no sales.
func (s *Store) SalesDateRange() (min, max time.Time, ok bool) {
	if len(s.sales) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.facets.MinDate, s.facets.MaxDate, true
}

// Counts returns the row count of each collection.
func (s *Store) Counts() Counts {
	return Counts{
		Sales:       len(s.sales),
		Customers:   len(s.customers),
		Inventory:   len(s.inventory),
		Receivables: len(s.receivables),
		Products:    len(s.products),
		Imports:     len(s.imports),
	}
}

// SubcategoriesByCategory maps each product category to its sorted
// subcategories, from the product catalogue.
func (s *Store) SubcategoriesByCategory() map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, p := range s.products {
		if p.Category == "" || p.Subcategory == "" {
			continue
		}
		if seen[p.Category] == nil {
			seen[p.Category] = make(map[string]bool)
		}
		seen[p.Category][p.Subcategory] = true
	}
	out := make(map[string][]string, len(seen))
	for cat, subs := range seen {
		list := make([]string, 0, len(subs))
		for sub := range subs {
			list = append(list, sub)
		}
		sort.Strings(list)
		out[cat] = list
	}
	return out
}
