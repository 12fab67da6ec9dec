package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/metrics"
	"github.com/andina-bi/dashboard/records"
	"github.com/andina-bi/dashboard/views"
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
			{ID: "V1", Date: day("2024-01-10"), CustomerID: "C1", Category: "A", Region: "North", Segment: "Retail", Subtotal: 100, Margin: 20},
			{ID: "V2", Date: day("2024-02-15"), CustomerID: "C2", Category: "B", Region: "South", Segment: "Corporate", Subtotal: 200, Margin: 50},
			{ID: "V3", Date: day("2024-06-30"), CustomerID: "C1", Category: "A", Region: "South", Segment: "Retail", Subtotal: 300, Margin: 60},
		},
		Customers: []records.Customer{
			{ID: "C1", Name: "Uno", Status: "Activo"},
			{ID: "C2", Name: "Dos", Status: "Inactivo"},
		},
		Inventory: []records.InventoryRecord{
			{SnapshotDate: day("2024-06-30"), LogisticsCenter: "BOG", Category: "A", Subcategory: "Taladros", StockUnits: 5, Value: 500},
		},
		Receivables: []records.Receivable{
			{InvoiceDate: day("2024-01-05"), Region: "North", Status: "Vencida", Balance: 100, DaysOverdue: 30},
		},
		Products: []records.Product{
			{ID: "P1", Name: "Taladro percutor", Category: "A", Subcategory: "Taladros", ListPrice: 250000},
		},
	})
	require.NoError(t, err)
	return s
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(testStore(t), engine.NewFormatter(engine.WithLocale("en")), metrics.New()))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		require.NoError(t, err)
		return resp.StatusCode
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func totalSales(t *testing.T, b views.Bundle) float64 {
	t.Helper()
	k, ok := b.KPI(views.KPITotalSales)
	require.True(t, ok)
	return k.Value
}

func TestViewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		total  float64
		period string
	}{
		{"full range", "/api/views/executive", 600, "2024-01 – 2024-06"},
		{"spanish tab id", "/api/views/gerencial", 600, "2024-01 – 2024-06"},
		{"date range", "/api/views/executive?start=2024-01-01&end=2024-01-31", 100, "2024-01"},
		{"open end", "/api/views/executive?start=2024-02-01", 500, "2024-02 – 2024-06"},
		{"category", "/api/views/commercial?categories=A", 400, "2024-01 – 2024-06"},
		{"comma list", "/api/views/commercial?regions=North,South&segments=Retail", 400, "2024-01 – 2024-06"},
		{"repeated param", "/api/views/commercial?categories=A&categories=B", 600, "2024-01 – 2024-06"},
		{"preset", "/api/views/executive?preset=currentMonth&start=2020-01-01", 300, "2024-06"},
		{"inverted range", "/api/views/executive?start=2024-06-30&end=2024-01-01", 0, "No data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b views.Bundle
			require.Equal(t, http.StatusOK, get(t, srv, tt.path, &b))
			assert.Equal(t, tt.total, totalSales(t, b))
			assert.Equal(t, tt.period, b.Period)
		})
	}
}

func TestViewEndpointOperational(t *testing.T) {
	srv := newTestServer(t)

	var b views.Bundle
	require.Equal(t, http.StatusOK, get(t, srv, "/api/views/operativo?centers=BOG", &b))
	assert.Equal(t, views.TabOperational, b.Tab)
	k, ok := b.KPI(views.KPIStockUnits)
	require.True(t, ok)
	assert.Equal(t, "5 unidades", k.Display)
	require.NotNil(t, b.Chart(views.ChartInventoryByCenter))
}

func TestViewEndpointErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/views/finance", http.StatusNotFound},
		{"/api/views/executive?start=10/01/2024", http.StatusBadRequest},
		{"/api/views/executive?end=tomorrow", http.StatusBadRequest},
		{"/api/views/executive?preset=decade", http.StatusBadRequest},
	}
	for _, tt := range tests {
		var body map[string]string
		assert.Equal(t, tt.status, get(t, srv, tt.path, &body), tt.path)
		assert.NotEmpty(t, body["error"], tt.path)
	}
}

func TestFacetsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var f facetsResponse
	require.Equal(t, http.StatusOK, get(t, srv, "/api/facets", &f))
	assert.Equal(t, []string{"A", "B"}, f.Categories)
	assert.Equal(t, []string{"North", "South"}, f.Regions)
	assert.Equal(t, []string{"Corporate", "Retail"}, f.Segments)
	assert.Equal(t, []string{"BOG"}, f.LogisticsCenters)
	assert.Equal(t, map[string][]string{"A": {"Taladros"}}, f.Subcategories)
	assert.Equal(t, "2024-01-10", f.MinDate)
	assert.Equal(t, "2024-06-30", f.MaxDate)
	assert.Len(t, f.Tabs, 3)
	assert.Len(t, f.Presets, 7)
}

func TestQuickRangeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var r rangeResponse
	require.Equal(t, http.StatusOK, get(t, srv, "/api/quick-range/currentMonth", &r))
	assert.Equal(t, rangeResponse{Preset: "currentMonth", Start: "2024-05-30", End: "2024-06-30"}, r)

	require.Equal(t, http.StatusOK, get(t, srv, "/api/quick-range/btn-year", &r))
	assert.Equal(t, "2024-01-10", r.Start)

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/quick-range/decade", nil))
}

func TestProductEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var p records.Product
	require.Equal(t, http.StatusOK, get(t, srv, "/api/products/P1", &p))
	assert.Equal(t, "Taladro percutor", p.Name)
	assert.Equal(t, 250000.0, p.ListPrice)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/products/P9", nil))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var h healthResponse
	require.Equal(t, http.StatusOK, get(t, srv, "/healthz", &h))
	assert.Equal(t, "ok", h.Status)
	assert.NotEmpty(t, h.LoadID)
	assert.Equal(t, 3, h.Counts.Sales)
	assert.Equal(t, 8, h.TotalRows)
	assert.Equal(t, "2024-01-10", h.SalesStart)
	assert.Equal(t, "2024-06-30", h.SalesEnd)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	get(t, srv, "/api/views/executive", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `dashboard_http_requests_total{code="200",route="/api/views/{tab}"} 1`)
	assert.Contains(t, string(body), `dashboard_render_duration_seconds_count{tab="executive"} 1`)
}

func TestEmptyStore(t *testing.T) {
	s, err := records.NewStore(records.Dataset{})
	require.NoError(t, err)
	srv := httptest.NewServer(New(s, nil, nil))
	defer srv.Close()

	var b views.Bundle
	require.Equal(t, http.StatusOK, get(t, srv, "/api/views/executive?preset=lastYear", &b))
	assert.Equal(t, "No data", b.Period)
	assert.Equal(t, 0.0, totalSales(t, b))

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/quick-range/all", nil))

	var f facetsResponse
	require.Equal(t, http.StatusOK, get(t, srv, "/api/facets", &f))
	assert.Empty(t, f.Categories)
	assert.Empty(t, f.MinDate)
}
