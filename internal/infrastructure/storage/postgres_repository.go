package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS filings (
    id SERIAL PRIMARY KEY,
    accession_no TEXT UNIQUE NOT NULL,
    company TEXT,
    ticker TEXT,
    cik TEXT,
    filed_date TEXT,
    item_codes TEXT,
    summary TEXT,
    auto_category TEXT,
    auto_subcategory TEXT,
    filing_url TEXT,
    raw_text TEXT,
    matched_keywords TEXT,
    near_miss BOOLEAN NOT NULL DEFAULT FALSE,
    category_origin TEXT,
    summary_origin TEXT,
    status TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresRepository persists promoted filings into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.FilingRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the filings table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create filings table: %w", err)
	}
	return nil
}

// AlreadyStored returns a map with accession ids that already exist in storage.
func (r *PostgresRepository) AlreadyStored(ctx context.Context, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("accession_no").
		From(filingsTable).
		Where("accession_no = ANY(?)", pq.Array(ids)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stored query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stored: %w", err)
	}

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// Insert stores the filing unless its accession id is already present.
func (r *PostgresRepository) Insert(ctx context.Context, filing domain.EnrichedFiling) (bool, error) {
	if r.db == nil {
		return false, nil
	}

	query, args, err := r.builder.
		Insert(filingsTable).
		Columns(filingColumns...).
		Values(newFilingRow(filing).values()...).
		Suffix("ON CONFLICT (accession_no) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert filing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
