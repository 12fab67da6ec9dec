// Package dashboard is the Andina BI dashboard: a filter and aggregation
// pipeline over six fixed business tables.
//
// Usage:
//
//	import "github.com/andina-bi/dashboard/pipeline"
//
//	store, err := loader.LoadStore(ctx, loader.DirSource{Dir: "./tablas"})
//	ctrl := pipeline.NewController(store, engine.NewFormatter())
//	ctrl.SelectTab(views.TabCommercial)
//	bundle, err := ctrl.Render()
//
// The loader package reads the tables (CSV directory, S3 bucket, SQLite or
// PostgreSQL) into a records.Store once. The pipeline filters the store by
// date range and facets, and the views package composes the KPIs, charts
// and tables for one tab using the engine. All computation is local.
package dashboard
