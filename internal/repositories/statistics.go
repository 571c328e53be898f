package repositories

import (
	"context"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"gorm.io/gorm"
)

type Statistics struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *Statistics {
	return &Statistics{db: db}
}

func (repo Statistics) Get(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	db := repo.db.WithContext(ctx)

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.Vacancy{}), &stats.Vacancies},
		{db.Model(&models.Vacancy{}).Where("status = ?", models.VacancyStatusActive), &stats.ActiveVacancies},
		{db.Model(&models.Candidate{}), &stats.Candidates},
		{db.Model(&models.Candidate{}).Where("status = ?", models.CandidateStatusNew), &stats.NewCandidates},
		{db.Model(&models.MatchResult{}), &stats.MatchResults},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return models.Stats{}, err
		}
	}
	return stats, nil
}
