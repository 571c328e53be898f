package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hr-matcher/internal/domain/events"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type candidateStorage interface {
	Add(ctx context.Context, candidate *models.Candidate) error
	Remove(ctx context.Context, id int64) (bool, error)
}

type vacancyStorage interface {
	Add(ctx context.Context, vacancy *models.Vacancy) error
	Remove(ctx context.Context, id int64) (bool, error)
}

type statisticsRepository interface {
	Get(ctx context.Context) (models.Stats, error)
}

// Catalog maintains candidates and vacancies on behalf of the ranking.
type Catalog struct {
	bus        EventBus.Bus
	candidates candidateStorage
	vacancies  vacancyStorage
	statistics statisticsRepository
}

func NewCatalog(bus EventBus.Bus, candidates candidateStorage, vacancies vacancyStorage,
	statistics statisticsRepository) *Catalog {

	return &Catalog{bus: bus, candidates: candidates, vacancies: vacancies, statistics: statistics}
}

// ImportCandidates reads a JSON array of already extracted candidates.
// Candidates without an extraction time are stamped with the import time.
func (c *Catalog) ImportCandidates(ctx context.Context, r io.Reader) (int, error) {
	var candidates []models.Candidate
	if err := json.NewDecoder(r).Decode(&candidates); err != nil {
		return 0, errors.Wrap(err, "decode candidates")
	}

	now := time.Now()
	for i := range candidates {
		if candidates[i].ExtractedAt == nil {
			candidates[i].ExtractedAt = &now
		}
		if err := c.candidates.Add(ctx, &candidates[i]); err != nil {
			return i, errors.Wrapf(err, "add candidate %q", candidates[i].Name)
		}
	}

	log.Infof("imported %d candidates", len(candidates))
	return len(candidates), nil
}

func (c *Catalog) ImportVacancies(ctx context.Context, r io.Reader) (int, error) {
	var records []vacancyRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, errors.Wrap(err, "decode vacancies")
	}
	vacancies := lo.Map(records, func(record vacancyRecord, _ int) models.Vacancy { return record.vacancy() })

	for i := range vacancies {
		if err := c.vacancies.Add(ctx, &vacancies[i]); err != nil {
			return i, errors.Wrapf(err, "add vacancy %q", vacancies[i].Title)
		}
	}

	log.Infof("imported %d vacancies", len(vacancies))
	return len(vacancies), nil
}

func (c *Catalog) DeleteCandidate(ctx context.Context, id int64) (bool, error) {
	removed, err := c.candidates.Remove(ctx, id)
	if err != nil {
		return false, errors.Wrapf(err, "delete candidate %d", id)
	}
	if removed {
		c.bus.Publish(events.CandidateDeletedTopic, events.CandidateDeleted{CandidateID: id})
	}
	return removed, nil
}

func (c *Catalog) DeleteVacancy(ctx context.Context, id int64) (bool, error) {
	removed, err := c.vacancies.Remove(ctx, id)
	if err != nil {
		return false, errors.Wrapf(err, "delete vacancy %d", id)
	}
	if removed {
		c.bus.Publish(events.VacancyDeletedTopic, events.VacancyDeleted{VacancyID: id})
	}
	return removed, nil
}

func (c *Catalog) Stats(ctx context.Context) (models.Stats, error) {
	return c.statistics.Get(ctx)
}

// vacancyRecord accepts "requirements" as another name for the vacancy skills.
type vacancyRecord struct {
	models.Vacancy
	Requirements []string `json:"requirements"`
}

func (r vacancyRecord) vacancy() models.Vacancy {
	vacancy := r.Vacancy
	if vacancy.Skills == nil && r.Requirements != nil {
		vacancy.Skills = r.Requirements
	}
	return vacancy
}
