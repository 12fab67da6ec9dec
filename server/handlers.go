package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andina-bi/dashboard/pipeline"
	"github.com/andina-bi/dashboard/records"
	"github.com/andina-bi/dashboard/views"
)

const dateLayout = "2006-01-02"

// ============================================================================
// VIEWS
// ============================================================================

// handleView renders one tab. Query parameters:
//
//	start, end   inclusive dates (YYYY-MM-DD); a missing bound defaults to
//	             the sales data bound
//	preset       quick range; overrides start and end
//	categories, regions, segments, centers
//	             facet values, comma-separated or repeated
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	tab, err := views.ParseTab(chi.URLParam(r, "tab"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	state, err := s.stateFromQuery(tab, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	bundle, err := pipeline.Run(s.store, state, s.formatter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.ObserveRender(string(tab), time.Since(start))

	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) stateFromQuery(tab views.Tab, q url.Values) (pipeline.State, error) {
	state := pipeline.State{
		Tab: tab,
		Facets: pipeline.Facets{
			Categories:       listParam(q, "categories"),
			Regions:          listParam(q, "regions"),
			Segments:         listParam(q, "segments"),
			LogisticsCenters: listParam(q, "centers"),
		},
	}

	min, max, ok := s.store.SalesDateRange()

	if name := q.Get("preset"); name != "" {
		preset, err := pipeline.ParsePreset(name)
		if err != nil {
			return state, err
		}
		if ok {
			r, err := pipeline.QuickRange(preset, min, max)
			if err != nil {
				return state, err
			}
			state.Range = &r
		}
		return state, nil
	}

	startStr, endStr := q.Get("start"), q.Get("end")
	if startStr == "" && endStr == "" {
		return state, nil
	}
	r := pipeline.DateRange{Start: min, End: max}
	if startStr != "" {
		t, err := time.Parse(dateLayout, startStr)
		if err != nil {
			return state, fmt.Errorf("invalid start date %q: want YYYY-MM-DD", startStr)
		}
		r.Start = t
	}
	if endStr != "" {
		t, err := time.Parse(dateLayout, endStr)
		if err != nil {
			return state, fmt.Errorf("invalid end date %q: want YYYY-MM-DD", endStr)
		}
		r.End = t
	}
	state.Range = &r
	return state, nil
}

// listParam reads a multi-valued parameter given as repeats, as a
// comma-separated list, or both. Blank items are dropped.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// ============================================================================
// REFERENCE DATA
// ============================================================================

type facetsResponse struct {
	Categories       []string            `json:"categories"`
	Regions          []string            `json:"regions"`
	Segments         []string            `json:"segments"`
	LogisticsCenters []string            `json:"logisticsCenters"`
	Subcategories    map[string][]string `json:"subcategories"`
	MinDate          string              `json:"minDate,omitempty"`
	MaxDate          string              `json:"maxDate,omitempty"`
	Tabs             []views.Tab         `json:"tabs"`
	Presets          []pipeline.Preset   `json:"presets"`
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	f := s.store.Facets()
	resp := facetsResponse{
		Categories:       nonNil(f.Categories),
		Regions:          nonNil(f.Regions),
		Segments:         nonNil(f.Segments),
		LogisticsCenters: nonNil(f.LogisticsCenters),
		Subcategories:    s.store.SubcategoriesByCategory(),
		Tabs:             views.Tabs(),
		Presets:          pipeline.Presets(),
	}
	if min, max, ok := s.store.SalesDateRange(); ok {
		resp.MinDate = min.Format(dateLayout)
		resp.MaxDate = max.Format(dateLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

type rangeResponse struct {
	Preset pipeline.Preset `json:"preset"`
	Start  string          `json:"start"`
	End    string          `json:"end"`
}

func (s *Server) handleQuickRange(w http.ResponseWriter, r *http.Request) {
	preset, err := pipeline.ParsePreset(chi.URLParam(r, "preset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	min, max, ok := s.store.SalesDateRange()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no sales data loaded"))
		return
	}
	dr, err := pipeline.QuickRange(preset, min, max)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, rangeResponse{
		Preset: preset,
		Start:  dr.Start.Format(dateLayout),
		End:    dr.End.Format(dateLayout),
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := s.store.Product(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("product %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ============================================================================
// HEALTH
// ============================================================================

type healthResponse struct {
	Status     string         `json:"status"`
	LoadID     string         `json:"loadId"`
	LoadedAt   time.Time      `json:"loadedAt"`
	Counts     records.Counts `json:"counts"`
	TotalRows  int            `json:"totalRows"`
	SalesStart string         `json:"salesStart,omitempty"`
	SalesEnd   string         `json:"salesEnd,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.store.Counts()
	resp := healthResponse{
		Status:    "ok",
		LoadID:    s.store.ID().String(),
		LoadedAt:  s.store.LoadedAt(),
		Counts:    c,
		TotalRows: c.Total(),
	}
	if min, max, ok := s.store.SalesDateRange(); ok {
		resp.SalesStart = min.Format(dateLayout)
		resp.SalesEnd = max.Format(dateLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("http: encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
