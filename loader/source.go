package loader

import (
	"context"
	"fmt"

	"github.com/andina-bi/dashboard/config"
)

// FromConfig builds the Source selected by cfg.Driver.
func FromConfig(ctx context.Context, cfg config.Source) (Source, error) {
	switch cfg.Driver {
	case config.DriverCSV, "":
		return DirSource{Dir: cfg.Dir, Files: cfg.Tables}, nil
	case config.DriverS3:
		return NewS3Source(ctx, S3Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
			Files:     cfg.Tables,
		})
	case config.DriverSQLite:
		return SQLSource{Driver: DriverSQLite, DSN: cfg.DSN, Tables: cfg.Tables}, nil
	case config.DriverPostgres:
		return SQLSource{Driver: DriverPostgres, DSN: cfg.DSN, Tables: cfg.Tables}, nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Driver)
	}
}
