package repositories

import (
	"context"
	"errors"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"gorm.io/gorm"
)

type Candidates struct {
	db *gorm.DB
}

func NewCandidatesRepository(db *gorm.DB) *Candidates {
	return &Candidates{db: db}
}

func (repo Candidates) Add(ctx context.Context, candidate *models.Candidate) error {
	return repo.db.WithContext(ctx).Create(candidate).Error
}

func (repo Candidates) GetByID(ctx context.Context, id int64) (*models.Candidate, error) {

	var candidate models.Candidate
	if err := repo.db.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &candidate, nil
}

// GetAll returns candidates ordered by id, optionally only those with the given status.
func (repo Candidates) GetAll(ctx context.Context, status string) ([]models.Candidate, error) {

	query := repo.db.WithContext(ctx).Order("id")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var candidates []models.Candidate
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (repo Candidates) Update(ctx context.Context, candidate *models.Candidate) error {
	return repo.db.WithContext(ctx).Save(candidate).Error
}

// Remove deletes the candidate together with its match results.
func (repo Candidates) Remove(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MatchResult{}, "candidate_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Candidate{}, "id = ?", id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
