package records

import (
	"strings"
	"time"
)

// ============================================================================
// RECORD TYPES — The six Andina collections
// ============================================================================

// Sale is one sales line. The fields after DiscountPct are derived at load
// time by NewStore and are never read from the source.
type Sale struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	CustomerID  string    `json:"customerId"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Region      string    `json:"region"`
	Segment     string    `json:"segment"`
	Executive   string    `json:"executive"`
	Quantity    float64   `json:"quantity"`
	Subtotal    float64   `json:"subtotal"`
	Margin      float64   `json:"margin"`
	DiscountPct float64   `json:"discountPct"`

	MarginPct float64 `json:"marginPct"`
	Month     string  `json:"month"` // "2006-01"
	Year      int     `json:"year"`

	// Enrichment from the customer collection. Empty when CustomerID
	// matches no customer.
	CustomerName     string `json:"customerName,omitempty"`
	CustomerSizeTier string `json:"customerSizeTier,omitempty"`
	HasCustomer      bool   `json:"hasCustomer"`
}

// Customer is one customer master record.
type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SizeTier   string    `json:"sizeTier"`
	SignupDate time.Time `json:"signupDate"`
	Status     string    `json:"status"`
}

// Active reports whether the customer status is active. The source data
// uses the Spanish "Activo"; both spellings are accepted.
func (c Customer) Active() bool {
	s := strings.TrimSpace(c.Status)
	return strings.EqualFold(s, "Active") || strings.EqualFold(s, "Activo")
}

// InventoryRecord is one stock line of an inventory snapshot.
type InventoryRecord struct {
	SnapshotDate    time.Time `json:"snapshotDate"`
	LogisticsCenter string    `json:"logisticsCenter"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory"`
	StockUnits      float64   `json:"stockUnits"`
	Value           float64   `json:"value"`
}

// Receivable is one open invoice.
type Receivable struct {
	CustomerID  string    `json:"customerId,omitempty"`
	InvoiceDate time.Time `json:"invoiceDate"`
	DueDate     time.Time `json:"dueDate"`
	Region      string    `json:"region"`
	Status      string    `json:"status"`
	Balance     float64   `json:"balance"`
	DaysOverdue float64   `json:"daysOverdue"`
}

// Overdue reports days_overdue > 0. The value is taken as given, never
// recomputed from the dates.
func (r Receivable) Overdue() bool { return r.DaysOverdue > 0 }

// Product is a catalogue entry. Reference data only.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	ListPrice   float64 `json:"listPrice"`
}

// ImportRecord is one purchase order from abroad. Reference data only.
type ImportRecord struct {
	ID            string    `json:"id"`
	OrderDate     time.Time `json:"orderDate"`
	ArrivalDate   time.Time `json:"arrivalDate"`
	Supplier      string    `json:"supplier"`
	OriginCountry string    `json:"originCountry"`
	Category      string    `json:"category"`
	Value         float64   `json:"value"`
}

// Dataset is the six parsed collections handed to NewStore.
type Dataset struct {
	Sales       []Sale
	Customers   []Customer
	Inventory   []InventoryRecord
	Receivables []Receivable
	Products    []Product
	Imports     []ImportRecord
}

// Counts holds the row count of each collection.
type Counts struct {
	Sales       int `json:"sales"`
	Customers   int `json:"customers"`
	Inventory   int `json:"inventory"`
	Receivables int `json:"receivables"`
	Products    int `json:"products"`
	Imports     int `json:"imports"`
}

// Total is the number of rows across all collections.
func (c Counts) Total() int {
	return c.Sales + c.Customers + c.Inventory + c.Receivables + c.Products + c.Imports
}

// FacetOptions lists the selectable values of each facet and the span of
// the sales dates.
type FacetOptions struct {
	Categories       []string  `json:"categories"`
	Regions          []string  `json:"regions"`
	Segments         []string  `json:"segments"`
	LogisticsCenters []string  `json:"logisticsCenters"`
	MinDate          time.Time `json:"minDate"`
	MaxDate          time.Time `json:"maxDate"`
}
