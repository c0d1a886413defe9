package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS filings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
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
    near_miss BOOLEAN NOT NULL DEFAULT 0,
    category_origin TEXT,
    summary_origin TEXT,
    status TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteRepository is the single-file backend for local runs.
type SQLiteRepository struct {
	db *sqlx.DB
}

var _ ports.FilingRepository = (*SQLiteRepository)(nil)

// OpenSQLite connects to the database file, creating its directory and schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path == "" {
		path = "filings.db"
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := NewSQLiteRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create filings table: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) AlreadyStored(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In("SELECT accession_no FROM filings WHERE accession_no IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("build stored query: %w", err)
	}

	var stored []string
	if err := r.db.SelectContext(ctx, &stored, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query stored: %w", err)
	}
	for _, id := range stored {
		result[id] = true
	}
	return result, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, filing domain.EnrichedFiling) (bool, error) {
	named := make([]string, len(filingColumns))
	for i, c := range filingColumns {
		named[i] = ":" + c
	}
	query := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		filingsTable, strings.Join(filingColumns, ", "), strings.Join(named, ", "))

	res, err := r.db.NamedExecContext(ctx, query, newFilingRow(filing))
	if err != nil {
		return false, fmt.Errorf("insert filing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of stored filings.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM filings"); err != nil {
		return 0, fmt.Errorf("count filings: %w", err)
	}
	return n, nil
}
