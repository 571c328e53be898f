package repositories

import (
	"context"
	"errors"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchResults struct {
	db *gorm.DB
}

func NewMatchResultsRepository(db *gorm.DB) *MatchResults {
	return &MatchResults{db: db}
}

func (r MatchResults) Get(ctx context.Context, candidateID, vacancyID int64) (*models.MatchResult, error) {
	var result models.MatchResult
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND vacancy_id = ?", candidateID, vacancyID).
		First(&result).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrapf(err, "get match result %d/%d", candidateID, vacancyID)
	}
	return &result, nil
}

// Put stores the result, fully replacing any previous one for the same pair.
func (r MatchResults) Put(ctx context.Context, result *models.MatchResult) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "vacancy_id"}},
				UpdateAll: true,
			}).
			Create(result).Error
	})
	return pkgerrors.Wrapf(err, "put match result %d/%d", result.CandidateID, result.VacancyID)
}

func (r MatchResults) Delete(ctx context.Context, candidateID, vacancyID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&models.MatchResult{}, "candidate_id = ? AND vacancy_id = ?", candidateID, vacancyID)
	if res.Error != nil {
		return false, pkgerrors.Wrapf(res.Error, "delete match result %d/%d", candidateID, vacancyID)
	}
	return res.RowsAffected > 0, nil
}

// ListByVacancy returns stored results of the vacancy, best first.
func (r MatchResults) ListByVacancy(ctx context.Context, vacancyID int64) ([]models.MatchResult, error) {
	var results []models.MatchResult
	err := r.db.WithContext(ctx).
		Where("vacancy_id = ?", vacancyID).
		Order("score DESC, candidate_id").
		Find(&results).Error
	return results, pkgerrors.Wrapf(err, "list match results of vacancy %d", vacancyID)
}

// RemoveOrphaned deletes results whose candidate or vacancy no longer exists.
func (r MatchResults) RemoveOrphaned(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)
	res := db.
		Where("candidate_id NOT IN (?) OR vacancy_id NOT IN (?)",
			db.Model(&models.Candidate{}).Select("id"),
			db.Model(&models.Vacancy{}).Select("id")).
		Delete(&models.MatchResult{})
	return res.RowsAffected, pkgerrors.Wrap(res.Error, "remove orphaned match results")
}
