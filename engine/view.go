package engine

import "time"

// ============================================================================
// RECORD VIEW — Read-only indexed access to one collection
// ============================================================================
// Views never own the rows. A typed collection is exposed once through a
// DomainAdapter; filtering and grouping hand out SubViews that hold only
// row indices into their parent. SliceView backs ad-hoc data and tests.
// ============================================================================

// RecordView provides indexed access to a dataset.
// Out-of-range indexes and unknown keys read as zero values.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	Date(index int, key string) time.Time
	// HasDimension reports whether key names a dimension of this view.
	HasDimension(key string) bool
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dims    map[string]bool
}

// NewSliceView creates a RecordView from a []Record slice. A dimension is
// known when at least one record carries it.
func NewSliceView(records []Record) RecordView {
	dims := make(map[string]bool)
	for _, r := range records {
		for k := range r.Dimensions {
			dims[k] = true
		}
	}
	return &SliceView{records: records, dims: dims}
}

func (v *SliceView) at(i int) (Record, bool) {
	if i < 0 || i >= len(v.records) {
		return Record{}, false
	}
	return v.records[i], true
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	r, _ := v.at(i)
	return r.Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	r, _ := v.at(i)
	return r.Measures[key]
}

func (v *SliceView) Date(i int, key string) time.Time {
	r, _ := v.at(i)
	return r.Dates[key]
}

func (v *SliceView) HasDimension(key string) bool { return v.dims[key] }

// ============================================================================
// SUB VIEW
// ============================================================================

// SubView is a subset of a parent view, in index order.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

// row maps a SubView index to the parent's, or -1 when out of range.
func (v *SubView) row(i int) int {
	if i < 0 || i >= len(v.indices) {
		return -1
	}
	return v.indices[i]
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	return v.parent.Dimension(v.row(i), key)
}

func (v *SubView) Measure(i int, key string) float64 {
	return v.parent.Measure(v.row(i), key)
}

func (v *SubView) Date(i int, key string) time.Time {
	return v.parent.Date(v.row(i), key)
}

func (v *SubView) HasDimension(key string) bool { return v.parent.HasDimension(key) }

// ============================================================================
// DOMAIN ADAPTER — Typed rows behind accessor functions
// ============================================================================
//
//	var salesAdapter = engine.NewDomainAdapter[Sale]().
//	    Dimension("region", func(s Sale) string { return s.Region }).
//	    Measure("subtotal", func(s Sale) float64 { return s.Subtotal }).
//	    Date("date", func(s Sale) time.Time { return s.Date })
//
//	view := salesAdapter.Bind(sales)
//
// ============================================================================

// DomainAdapter maps the fields of T to dimension, measure and date keys.
// Declare it once at package level and Bind it to each loaded slice.
type DomainAdapter[T any] struct {
	dims  map[string]func(T) string
	meas  map[string]func(T) float64
	dates map[string]func(T) time.Time
}

// NewDomainAdapter creates an empty adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims:  make(map[string]func(T) string),
		meas:  make(map[string]func(T) float64),
		dates: make(map[string]func(T) time.Time),
	}
}

// Dimension registers a text field.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	a.dims[key] = fn
	return a
}

// Measure registers a numeric field.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	a.meas[key] = fn
	return a
}

// Date registers a calendar date field.
func (a *DomainAdapter[T]) Date(key string, fn func(T) time.Time) *DomainAdapter[T] {
	a.dates[key] = fn
	return a
}

// Bind returns a view over data. The slice is referenced, not copied, and
// must not be modified while the view is in use.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{adapter: a, data: data}
}

// DomainView is a RecordView over a typed slice.
type DomainView[T any] struct {
	adapter *DomainAdapter[T]
	data    []T
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	fn, ok := v.adapter.dims[key]
	if !ok || i < 0 || i >= len(v.data) {
		return ""
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	fn, ok := v.adapter.meas[key]
	if !ok || i < 0 || i >= len(v.data) {
		return 0
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) Date(i int, key string) time.Time {
	fn, ok := v.adapter.dates[key]
	if !ok || i < 0 || i >= len(v.data) {
		return time.Time{}
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) HasDimension(key string) bool {
	_, ok := v.adapter.dims[key]
	return ok
}
