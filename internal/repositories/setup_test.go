package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/stretchr/testify/require"
)

func newTestDb(t *testing.T) *DbContext {
	t.Helper()

	dbCtx, err := NewDbContext(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}

func seedPair(t *testing.T, dbCtx *DbContext) (*models.Candidate, *models.Vacancy) {
	t.Helper()
	ctx := context.Background()

	extracted := time.Now()
	candidate := &models.Candidate{
		Name:        "Ivan",
		Location:    "спб",
		Skills:      []string{"go", "sql"},
		ExtractedAt: &extracted,
	}
	vacancy := &models.Vacancy{Title: "Go developer", Location: "Санкт-Петербург"}

	require.NoError(t, NewCandidatesRepository(dbCtx.DB).Add(ctx, candidate))
	require.NoError(t, NewVacanciesRepository(dbCtx.DB).Add(ctx, vacancy))
	return candidate, vacancy
}
