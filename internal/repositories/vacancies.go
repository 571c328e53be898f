package repositories

import (
	"context"
	"errors"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"gorm.io/gorm"
)

type Vacancies struct {
	db *gorm.DB
}

func NewVacanciesRepository(db *gorm.DB) *Vacancies {
	return &Vacancies{db: db}
}

func (repo Vacancies) Add(ctx context.Context, vacancy *models.Vacancy) error {
	return repo.db.WithContext(ctx).Create(vacancy).Error
}

func (repo Vacancies) GetByID(ctx context.Context, id int64) (*models.Vacancy, error) {

	var vacancy models.Vacancy
	if err := repo.db.WithContext(ctx).First(&vacancy, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vacancy, nil
}

func (repo Vacancies) GetAll(ctx context.Context, status string) ([]models.Vacancy, error) {

	query := repo.db.WithContext(ctx).Order("id")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var vacancies []models.Vacancy
	if err := query.Find(&vacancies).Error; err != nil {
		return nil, err
	}
	return vacancies, nil
}

func (repo Vacancies) Update(ctx context.Context, vacancy *models.Vacancy) error {
	return repo.db.WithContext(ctx).Save(vacancy).Error
}

// Remove deletes the vacancy together with its match results.
func (repo Vacancies) Remove(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MatchResult{}, "vacancy_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Vacancy{}, "id = ?", id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
