package records

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andina-bi/dashboard/engine"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleDataset() Dataset {
	bogota := time.FixedZone("COT", -5*3600)
	return Dataset{
		Sales: []Sale{
			{ID: "V1", Date: time.Date(2024, 1, 10, 15, 30, 0, 0, bogota), CustomerID: "C1", Category: "A", Region: "North", Segment: "Retail", Subtotal: 100, Margin: 20},
			{ID: "V2", Date: day("2024-02-15"), CustomerID: "C9", Category: "B", Region: "South", Segment: "Corporate", Subtotal: 200, Margin: 50},
			{ID: "V3", Date: day("2024-02-20"), CustomerID: "C2", Category: "A", Region: "South", Segment: "Retail", Subtotal: 0, Margin: 0},
		},
		Customers: []Customer{
			{ID: "C1", Name: "Ferretería Uno", SizeTier: "Grande", Status: "Activo"},
			{ID: "C2", Name: "Distribuidora Dos", SizeTier: "Pequeño", Status: "Inactivo"},
		},
		Inventory: []InventoryRecord{
			{SnapshotDate: day("2024-01-31"), LogisticsCenter: "BOG", Category: "A", Value: 10},
			{SnapshotDate: day("2024-02-29"), LogisticsCenter: "MDE", Category: "B", Value: 20},
		},
		Receivables: []Receivable{
			{InvoiceDate: day("2024-01-05"), Region: "North", Balance: 100, DaysOverdue: 10},
			{InvoiceDate: day("2024-02-05"), Region: "South", Balance: 50, DaysOverdue: 0},
		},
		Products: []Product{
			{ID: "P1", Name: "Taladro", Category: "A", Subcategory: "Eléctricas"},
			{ID: "P2", Name: "Martillo", Category: "A", Subcategory: "Manuales"},
			{ID: "P3", Name: "Broca", Category: "A", Subcategory: "Eléctricas"},
		},
		Imports: []ImportRecord{{ID: "I1", OrderDate: day("2024-01-01")}},
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(sampleDataset())
	require.NoError(t, err)
	return s
}

func TestNewStoreDerivesSaleFields(t *testing.T) {
	s := newStore(t)
	sales := s.Sales()

	require.Equal(t, 3, sales.Len())
	assert.Equal(t, day("2024-01-10"), sales.Date(0, FieldDate))
	assert.Equal(t, "2024-01", sales.Dimension(0, FieldMonth))
	assert.Equal(t, "2024", sales.Dimension(0, FieldYear))
	assert.Equal(t, 20.0, sales.Measure(0, FieldMarginPct))
	assert.Equal(t, 25.0, sales.Measure(1, FieldMarginPct))
	assert.Equal(t, 0.0, sales.Measure(2, FieldMarginPct), "zero subtotal yields 0, not NaN")
}

func TestNewStoreLeftJoinsCustomers(t *testing.T) {
	s := newStore(t)
	sales := s.Sales()

	assert.Equal(t, "Ferretería Uno", sales.Dimension(0, FieldCustomer))
	assert.Equal(t, "Grande", sales.Dimension(0, FieldCustomerTier))

	// unmatched customer: row kept, enrichment absent
	assert.Equal(t, "C9", sales.Dimension(1, FieldCustomerID))
	assert.Empty(t, sales.Dimension(1, FieldCustomer))
	assert.Empty(t, sales.Dimension(1, FieldCustomerTier))
}

func TestNewStoreDuplicateCustomer(t *testing.T) {
	ds := sampleDataset()
	ds.Customers = append(ds.Customers, Customer{ID: "C1", Name: "Otra"})

	_, err := NewStore(ds)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateCustomer)
}

func TestNewStoreDoesNotRetainInput(t *testing.T) {
	ds := sampleDataset()
	s, err := NewStore(ds)
	require.NoError(t, err)

	ds.Sales[0].Category = "Z"
	assert.Equal(t, "A", s.Sales().Dimension(0, FieldCategory))
	assert.Empty(t, ds.Sales[0].Month, "input rows are not modified")
}

func TestStoreFacetsAndRange(t *testing.T) {
	s := newStore(t)
	f := s.Facets()

	assert.Equal(t, []string{"A", "B"}, f.Categories)
	assert.Equal(t, []string{"North", "South"}, f.Regions)
	assert.Equal(t, []string{"Corporate", "Retail"}, f.Segments)
	assert.Equal(t, []string{"BOG", "MDE"}, f.LogisticsCenters)

	min, max, ok := s.SalesDateRange()
	require.True(t, ok)
	assert.Equal(t, day("2024-01-10"), min)
	assert.Equal(t, day("2024-02-20"), max)

	f.Categories[0] = "mutated"
	assert.Equal(t, "A", s.Facets().Categories[0])
}

func TestStoreEmpty(t *testing.T) {
	s, err := NewStore(Dataset{})
	require.NoError(t, err)

	_, _, ok := s.SalesDateRange()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Counts().Total())
	assert.NotEqual(t, uuid.Nil, s.ID())
}

func TestStoreLookupsAndCounts(t *testing.T) {
	s := newStore(t)

	c, ok := s.Customer("C2")
	require.True(t, ok)
	assert.False(t, c.Active())

	p, ok := s.Product("P2")
	require.True(t, ok)
	assert.Equal(t, "Martillo", p.Name)
	_, ok = s.Product("P404")
	assert.False(t, ok)

	assert.Equal(t, map[string][]string{"A": {"Eléctricas", "Manuales"}}, s.SubcategoriesByCategory())
	assert.Equal(t, Counts{Sales: 3, Customers: 2, Inventory: 2, Receivables: 2, Products: 3, Imports: 1}, s.Counts())
}

func TestReceivablesOverdueBalance(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, 100.0, engine.SumMeasure(s.Receivables(), FieldOverdueBalance))
	assert.Equal(t, 150.0, engine.SumMeasure(s.Receivables(), FieldBalance))
}

func TestCustomerActive(t *testing.T) {
	assert.True(t, Customer{Status: "Active"}.Active())
	assert.True(t, Customer{Status: " activo "}.Active())
	assert.False(t, Customer{Status: "Inactive"}.Active())

	active := engine.ApplyFilters(newStore(t).Customers(), engine.Filters{
		Dimensions: map[string][]string{FieldActive: {"true"}},
	})
	assert.Equal(t, 1, active.Len())
}

func TestMarginPct(t *testing.T) {
	assert.Equal(t, 33.33, MarginPct(1, 3))
	assert.Equal(t, 66.67, MarginPct(2, 3))
	assert.Equal(t, 0.0, MarginPct(5, 0))
	assert.Equal(t, -10.0, MarginPct(-10, 100))
}
