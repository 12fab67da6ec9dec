// Package loader reads the six Andina tables from a directory of CSV files,
// an S3 bucket or a SQL database and builds the Record Store from them.
package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/andina-bi/dashboard/records"
	"github.com/andina-bi/dashboard/schema"
)

// Source loads the six collections.
type Source interface {
	Load(ctx context.Context) (records.Dataset, error)
	// Describe names the source for logs: "csv:tablas", "s3://bucket/prefix".
	Describe() string
}

// Opener opens one named CSV object (file name, object key suffix).
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, name string) (io.ReadCloser, error)

func (f OpenerFunc) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return f(ctx, name)
}

// ParseTables opens and parses every table. names overrides the default
// file name per table name; missing entries use schema.Table.File.
func ParseTables(ctx context.Context, open Opener, names map[string]string) (records.Dataset, error) {
	tables := make(map[string]*table, 6)
	for _, t := range schema.Tables() {
		if err := ctx.Err(); err != nil {
			return records.Dataset{}, err
		}
		name := fileName(t, names)
		parsed, err := parseOne(ctx, open, t, name)
		if err != nil {
			return records.Dataset{}, err
		}
		tables[t.Name] = parsed
	}
	return buildDataset(tables)
}

func parseOne(ctx context.Context, open Opener, t schema.Table, name string) (*table, error) {
	rc, err := open.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s (%s): %w", t.Name, name, err)
	}
	defer rc.Close()
	return parseCSV(rc, t)
}

func fileName(t schema.Table, names map[string]string) string {
	if n, ok := names[t.Name]; ok && n != "" {
		return n
	}
	return t.File
}

// buildDataset decodes parsed tables into typed collections.
func buildDataset(tables map[string]*table) (records.Dataset, error) {
	var (
		ds  records.Dataset
		err error
	)
	if ds.Sales, err = decodeSales(tables[schema.TableSales]); err != nil {
		return ds, err
	}
	if ds.Customers, err = decodeCustomers(tables[schema.TableCustomers]); err != nil {
		return ds, err
	}
	if ds.Inventory, err = decodeInventory(tables[schema.TableInventory]); err != nil {
		return ds, err
	}
	if ds.Receivables, err = decodeReceivables(tables[schema.TableReceivables]); err != nil {
		return ds, err
	}
	if ds.Products, err = decodeProducts(tables[schema.TableProducts]); err != nil {
		return ds, err
	}
	if ds.Imports, err = decodeImports(tables[schema.TableImports]); err != nil {
		return ds, err
	}
	return ds, nil
}

// LoadStore loads a source and builds the Record Store. Any failure is
// returned; a partially loaded store is never produced.
func LoadStore(ctx context.Context, src Source) (*records.Store, error) {
	start := time.Now()
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Describe(), err)
	}
	store, err := records.NewStore(ds)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Describe(), err)
	}
	slog.Info("loader: source loaded", "source", src.Describe(), "rows", store.Counts().Total(), "duration", time.Since(start))
	return store, nil
}

// ============================================================================
// DIRECTORY SOURCE
// ============================================================================

// DirSource reads the CSV files from a local directory.
type DirSource struct {
	Dir   string
	Files map[string]string // table name → file name override
}

func (s DirSource) Describe() string { return "csv:" + s.Dir }

func (s DirSource) Load(ctx context.Context) (records.Dataset, error) {
	return ParseTables(ctx, OpenerFunc(func(_ context.Context, name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(s.Dir, name))
	}), s.Files)
}
