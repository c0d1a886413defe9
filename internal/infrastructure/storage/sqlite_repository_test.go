package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FilingScanner/internal/config"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "filings.db"))
	require.NoError(t, err)
	defer repo.Close()

	f := sampleFiling()
	inserted, err := repo.Insert(ctx, f)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, f)
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := repo.AlreadyStored(ctx, []string{f.AccessionID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{f.AccessionID: true}, stored)

	var row filingRow
	require.NoError(t, repo.db.GetContext(ctx, &row,
		"SELECT accession_no, company, ticker, cik, filed_date, item_codes, summary, auto_category, auto_subcategory, filing_url, raw_text, matched_keywords, near_miss, category_origin, summary_origin, status FROM filings"))
	assert.Equal(t, "2024-01-02", row.FiledDate)
	assert.Equal(t, "5.02, 9.01", row.ItemCodes)
	assert.Equal(t, "CFO Departure", row.AutoSubcategory)
	assert.Equal(t, "promoted", row.Status)
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, closer, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, DSN: filepath.Join(t.TempDir(), "f.db")})
	require.NoError(t, err)
	defer closer.Close()
	assert.IsType(t, &SQLiteRepository{}, repo)

	_, _, err = Open(ctx, config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
