package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hr-matcher/internal/domain/events"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type rankingEnv struct {
	ctx        context.Context
	db         *gorm.DB
	bus        EventBus.Bus
	candidates *repositories.Candidates
	vacancies  *repositories.Vacancies
	store      *repositories.CachedMatchResults
	results    *repositories.MatchResults
	statistics *repositories.Statistics
	ranking    *Ranking
}

func newRankingEnv(t *testing.T, external externalScorer) *rankingEnv {
	t.Helper()

	dbCtx, err := repositories.NewDbContext(filepath.Join(t.TempDir(), "ranking.db"))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })

	bus := EventBus.New()
	results := repositories.NewMatchResultsRepository(dbCtx.DB)
	store, err := repositories.NewCachedMatchResults(results, bus)
	require.NoError(t, err)

	env := &rankingEnv{
		ctx:        context.Background(),
		db:         dbCtx.DB,
		bus:        bus,
		candidates: repositories.NewCandidatesRepository(dbCtx.DB),
		vacancies:  repositories.NewVacanciesRepository(dbCtx.DB),
		store:      store,
		results:    results,
		statistics: repositories.NewStatisticsRepository(dbCtx.DB),
	}

	scorer := NewMatchScorer(bus, store, external, NewLocalScorer(testFields()), time.Second)
	env.ranking = NewRanking(bus, env.candidates, env.vacancies, scorer, store, 4)
	return env
}

func (e *rankingEnv) addCandidate(t *testing.T, name string, skills ...string) *models.Candidate {
	candidate := extractedCandidate(0)
	candidate.Name = name
	candidate.Skills = skills
	require.NoError(t, e.candidates.Add(e.ctx, candidate))
	return candidate
}

func (e *rankingEnv) addVacancy(t *testing.T, skills ...string) *models.Vacancy {
	vacancy := &models.Vacancy{Title: "", Skills: skills}
	require.NoError(t, e.vacancies.Add(e.ctx, vacancy))
	return vacancy
}

func names(ranked []RankedCandidate) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Name)
	}
	return out
}

func Test_Rank_OrdersBySkillsOverlap(t *testing.T) {
	env := newRankingEnv(t, nil)
	vacancy := env.addVacancy(t, "python", "sql")
	env.addCandidate(t, "B", "python")
	env.addCandidate(t, "A", "python", "sql", "docker")

	ranked, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{MinScore: 0})
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B"}, names(ranked))
	assert.InDelta(t, 2.0/3.0, *ranked[0].MatchingScore, 1e-9)
	assert.Equal(t, 66.7, *ranked[0].ScorePercentage)
	assert.InDelta(t, 0.5, *ranked[1].MatchingScore, 1e-9)
	assert.Equal(t, 50.0, *ranked[1].ScorePercentage)
}

func Test_Rank_ThresholdExcludesWeakCandidates(t *testing.T) {
	env := newRankingEnv(t, nil)
	vacancy := env.addVacancy(t, "python", "sql")
	env.addCandidate(t, "A", "python", "sql", "docker")
	env.addCandidate(t, "B", "python")

	ranked, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{MinScore: 0.6})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names(ranked))
}

func Test_Rank_UnscoredCandidatesAreKeptLast(t *testing.T) {
	env := newRankingEnv(t, nil)
	vacancy := env.addVacancy(t, "python", "sql")

	pending := &models.Candidate{Name: "pending", Skills: []string{"cobol"}}
	require.NoError(t, env.candidates.Add(env.ctx, pending))
	env.addCandidate(t, "A", "python", "sql")

	ranked, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{MinScore: 0.9})
	require.NoError(t, err)

	require.Equal(t, []string{"A", "pending"}, names(ranked))
	assert.Nil(t, ranked[1].MatchingScore)
	assert.Nil(t, ranked[1].ScorePercentage)
}

func Test_Rank_TiesAreBrokenByID(t *testing.T) {
	env := newRankingEnv(t, nil)
	vacancy := env.addVacancy(t, "python")
	first := env.addCandidate(t, "first", "python")
	second := env.addCandidate(t, "second", "python")

	ranked, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{})
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, first.ID, ranked[0].ID)
	assert.Equal(t, second.ID, ranked[1].ID)
}

func Test_Rank_StatusFilter(t *testing.T) {
	env := newRankingEnv(t, nil)
	vacancy := env.addVacancy(t, "python")
	env.addCandidate(t, "fresh", "python")

	rejected := extractedCandidate(0)
	rejected.Name = "rejected"
	rejected.Status = "rejected"
	require.NoError(t, env.candidates.Add(env.ctx, rejected))

	ranked, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{Status: models.CandidateStatusNew})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, names(ranked))
}

func Test_Rank_UnknownVacancyIsEmpty(t *testing.T) {
	env := newRankingEnv(t, nil)
	env.addCandidate(t, "A", "python")

	ranked, err := env.ranking.Rank(env.ctx, 404, RankQuery{})
	require.NoError(t, err)
	assert.Empty(t, ranked)
	assert.NotNil(t, ranked)
}

func Test_Rank_ReusesStoredResultsUnlessForced(t *testing.T) {
	external := &mockExternalScorer{}
	external.On("Evaluate", mock.Anything, mock.Anything, mock.Anything).Return(externalEvaluation(0.75), nil)

	env := newRankingEnv(t, external)
	vacancy := env.addVacancy(t, "python")
	env.addCandidate(t, "A", "python")
	env.addCandidate(t, "B", "go")

	for i := 0; i < 3; i++ {
		_, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{})
		require.NoError(t, err)
	}
	external.AssertNumberOfCalls(t, "Evaluate", 2)

	ranked, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{Force: true})
	require.NoError(t, err)
	external.AssertNumberOfCalls(t, "Evaluate", 4)
	assert.Equal(t, 75.0, *ranked[0].ScorePercentage)
	assert.Equal(t, models.BackendExternal, ranked[0].Result.Backend)
}

func Test_Discard_RemovesResultAndPublishes(t *testing.T) {
	env := newRankingEnv(t, nil)
	vacancy := env.addVacancy(t, "python")
	candidate := env.addCandidate(t, "A", "python")

	discarded := 0
	require.NoError(t, env.bus.Subscribe(events.MatchDiscardedTopic, func(events.MatchDiscarded) { discarded++ }))

	_, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{})
	require.NoError(t, err)

	deleted, err := env.ranking.Discard(env.ctx, candidate.ID, vacancy.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.ranking.Discard(env.ctx, candidate.ID, vacancy.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, discarded)

	result, err := env.store.Get(env.ctx, candidate.ID, vacancy.ID)
	require.NoError(t, err)
	assert.Nil(t, result)
}

type failingScorer struct{}

func (failingScorer) Score(context.Context, *models.Candidate, *models.Vacancy, bool) (*models.MatchResult, error) {
	return nil, errors.New("database is locked")
}

func Test_Rank_StoreFailureAbortsRanking(t *testing.T) {
	env := newRankingEnv(t, nil)
	vacancy := env.addVacancy(t, "python")
	env.addCandidate(t, "A", "python")

	ranking := NewRanking(env.bus, env.candidates, env.vacancies, failingScorer{}, env.store, 2)
	_, err := ranking.Rank(env.ctx, vacancy.ID, RankQuery{})
	assert.ErrorContains(t, err, "database is locked")
}
