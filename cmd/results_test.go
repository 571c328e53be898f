package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ListResults_PrintsStoredResultsBestFirst(t *testing.T) {
	ctx := context.Background()
	dbCtx, err := repositories.NewDbContext(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })

	candidates := repositories.NewCandidatesRepository(dbCtx.DB)
	vacancies := repositories.NewVacanciesRepository(dbCtx.DB)
	store := repositories.NewMatchResultsRepository(dbCtx.DB)

	extracted := time.Now()
	first := &models.Candidate{Name: "Anna", ExtractedAt: &extracted}
	second := &models.Candidate{Name: "Boris", ExtractedAt: &extracted}
	vacancy := &models.Vacancy{Title: "Go developer"}
	require.NoError(t, candidates.Add(ctx, first))
	require.NoError(t, candidates.Add(ctx, second))
	require.NoError(t, vacancies.Add(ctx, vacancy))

	require.NoError(t, store.Put(ctx, models.NewMatchResult(first.ID, vacancy.ID, 0.25)))
	require.NoError(t, store.Put(ctx, models.NewMatchResult(second.ID, vacancy.ID, 0.75)))

	var out bytes.Buffer
	require.NoError(t, listResults(ctx, store, vacancy.ID, &out))

	var printed []models.MatchResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	require.Len(t, printed, 2)
	assert.Equal(t, second.ID, printed[0].CandidateID)
	assert.Equal(t, 75.0, printed[0].Score)
	assert.Equal(t, first.ID, printed[1].CandidateID)

	out.Reset()
	require.NoError(t, listResults(ctx, store, vacancy.ID+1, &out))
	assert.JSONEq(t, "[]", out.String())
}
