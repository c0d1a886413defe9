package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"FilingScanner/internal/config"
	"FilingScanner/internal/ports"
)

// Open connects the backend selected by cfg.Driver and makes sure the schema exists.
func Open(ctx context.Context, cfg config.DatabaseConfig) (ports.FilingRepository, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		repo := NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	case config.DriverSQLite, "":
		repo, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
