package services

import (
	"strings"
	"testing"

	"github.com/maxaizer/hr-matcher/internal/domain/events"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const candidatesJSON = `[
  {"name": "Ivan", "location": "мск", "age": 30, "desired_salary": "150 000",
   "skills": ["Go", "SQL"], "languages": [{"name": "English", "level": "B2"}]},
  {"name": "Olga", "age": null, "skills": []}
]`

const vacanciesJSON = `[
  {"title": "Go developer", "location": "Москва", "salary_min": 120000, "salary_max": "180000",
   "skills": ["go", "sql"], "work_experience": {"duration": "3 years"}}
]`

func Test_Catalog_ImportAndStats(t *testing.T) {
	env := newRankingEnv(t, nil)
	catalog := NewCatalog(env.bus, env.candidates, env.vacancies, env.statistics)

	imported, err := catalog.ImportCandidates(env.ctx, strings.NewReader(candidatesJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	imported, err = catalog.ImportVacancies(env.ctx, strings.NewReader(vacanciesJSON))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	all, err := env.candidates.GetAll(env.ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.Number("30"), all[0].Age)
	assert.True(t, all[0].IsScorable())
	assert.NotNil(t, all[1].Skills)
	assert.Nil(t, all[1].Languages)

	stats, err := catalog.Stats(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Vacancies: 1, ActiveVacancies: 1, Candidates: 2, NewCandidates: 2}, stats)

	ranked, err := env.ranking.Rank(env.ctx, 1, RankQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ivan", "Olga"}, names(ranked))
}

func Test_Catalog_ImportVacancies_RequirementsAreSkills(t *testing.T) {
	env := newRankingEnv(t, nil)
	catalog := NewCatalog(env.bus, env.candidates, env.vacancies, env.statistics)

	_, err := catalog.ImportVacancies(env.ctx, strings.NewReader(`[
	  {"title": "Analyst", "requirements": ["SQL", "Excel"]},
	  {"title": "Backend", "skills": ["Go"], "requirements": ["Java"]}
	]`))
	require.NoError(t, err)

	analyst, err := env.vacancies.GetByID(env.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL", "Excel"}, analyst.Skills)

	backend, err := env.vacancies.GetByID(env.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, backend.Skills)
}

func Test_Catalog_ImportRejectsMalformedJSON(t *testing.T) {
	env := newRankingEnv(t, nil)
	catalog := NewCatalog(env.bus, env.candidates, env.vacancies, env.statistics)

	_, err := catalog.ImportCandidates(env.ctx, strings.NewReader(`{"name": "not an array"}`))
	assert.Error(t, err)
}

func Test_Catalog_DeleteCascadesAndPublishes(t *testing.T) {
	env := newRankingEnv(t, nil)
	catalog := NewCatalog(env.bus, env.candidates, env.vacancies, env.statistics)
	vacancy := env.addVacancy(t, "python")
	candidate := env.addCandidate(t, "A", "python")

	var deletedCandidates, deletedVacancies []int64
	require.NoError(t, env.bus.Subscribe(events.CandidateDeletedTopic, func(e events.CandidateDeleted) {
		deletedCandidates = append(deletedCandidates, e.CandidateID)
	}))
	require.NoError(t, env.bus.Subscribe(events.VacancyDeletedTopic, func(e events.VacancyDeleted) {
		deletedVacancies = append(deletedVacancies, e.VacancyID)
	}))

	_, err := env.ranking.Rank(env.ctx, vacancy.ID, RankQuery{})
	require.NoError(t, err)

	removed, err := catalog.DeleteCandidate(env.ctx, candidate.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	result, err := env.store.Get(env.ctx, candidate.ID, vacancy.ID)
	require.NoError(t, err)
	assert.Nil(t, result)

	removed, err = catalog.DeleteVacancy(env.ctx, vacancy.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = catalog.DeleteVacancy(env.ctx, vacancy.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, []int64{candidate.ID}, deletedCandidates)
	assert.Equal(t, []int64{vacancy.ID}, deletedVacancies)
}
