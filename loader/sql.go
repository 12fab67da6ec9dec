package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/andina-bi/dashboard/records"
	"github.com/andina-bi/dashboard/schema"
)

// SQL driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// SQLSource reads each collection with SELECT * from one table. Column names
// resolve exactly like CSV headers. Table names default to the CSV file
// name without extension ("ventas_andina").
type SQLSource struct {
	Driver string
	DSN    string
	Tables map[string]string
}

func (s SQLSource) Describe() string { return s.Driver + ":" + redact(s.DSN) }

func (s SQLSource) Load(ctx context.Context) (records.Dataset, error) {
	db, err := sql.Open(s.Driver, s.DSN)
	if err != nil {
		return records.Dataset{}, fmt.Errorf("open %s: %w", s.Driver, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return records.Dataset{}, fmt.Errorf("ping %s: %w", s.Driver, err)
	}

	tables := make(map[string]*table, 6)
	for _, t := range schema.Tables() {
		parsed, err := s.query(ctx, db, t)
		if err != nil {
			return records.Dataset{}, err
		}
		tables[t.Name] = parsed
	}
	return buildDataset(tables)
}

func (s SQLSource) query(ctx context.Context, db *sql.DB, t schema.Table) (*table, error) {
	name := s.tableName(t)
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", name, err)
	}

	var values [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(headers))
		dest := make([]any, len(headers))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return newTable(t, headers, values)
}

func (s SQLSource) tableName(t schema.Table) string {
	if n, ok := s.Tables[t.Name]; ok && n != "" {
		return n
	}
	return strings.TrimSuffix(t.File, ".csv")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// redact hides a password in URL-style DSNs.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return dsn[:scheme+3] + creds[:colon] + ":***" + dsn[at:]
	}
	return dsn
}
