package services

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hr-matcher/internal/domain/events"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type candidateRepository interface {
	GetAll(ctx context.Context, status string) ([]models.Candidate, error)
}

type vacancyRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Vacancy, error)
}

type pairScorer interface {
	Score(ctx context.Context, candidate *models.Candidate, vacancy *models.Vacancy, force bool) (*models.MatchResult, error)
}

// RankedCandidate is a candidate with its matching score, nil while the candidate is not scorable yet.
type RankedCandidate struct {
	models.Candidate
	MatchingScore   *float64            `json:"matching_score"`
	ScorePercentage *float64            `json:"score_percentage"`
	Result          *models.MatchResult `json:"-"`
}

func (r *RankedCandidate) attach(result *models.MatchResult) {
	score := result.Fraction()
	percentage := models.Percentage(score)
	r.MatchingScore = &score
	r.ScorePercentage = &percentage
	r.Result = result
}

type Ranking struct {
	bus         EventBus.Bus
	candidates  candidateRepository
	vacancies   vacancyRepository
	scorer      pairScorer
	store       matchResultStore
	concurrency int
}

func NewRanking(bus EventBus.Bus, candidates candidateRepository, vacancies vacancyRepository,
	scorer pairScorer, store matchResultStore, concurrency int) *Ranking {

	return &Ranking{
		bus:         bus,
		candidates:  candidates,
		vacancies:   vacancies,
		scorer:      scorer,
		store:       store,
		concurrency: max(concurrency, 1),
	}
}

// Rank returns the candidates of the vacancy best first. Scores missing from the store are
// computed on the way. An unknown vacancy gives an empty ranking.
func (r *Ranking) Rank(ctx context.Context, vacancyID int64, query RankQuery) ([]RankedCandidate, error) {
	start := time.Now()
	defer func() {
		metrics.RankingDuration.WithLabelValues(strconv.FormatBool(query.Force)).Observe(time.Since(start).Seconds())
	}()

	vacancy, err := r.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, errors.Wrapf(err, "load vacancy %d", vacancyID)
	}
	if vacancy == nil {
		return []RankedCandidate{}, nil
	}

	candidates, err := r.candidates.GetAll(ctx, query.Status)
	if err != nil {
		return nil, errors.Wrap(err, "load candidates")
	}

	ranked := make([]RankedCandidate, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i := range candidates {
		ranked[i].Candidate = candidates[i]
		if !candidates[i].IsScorable() {
			continue
		}

		i := i
		group.Go(func() error {
			result, err := r.scorer.Score(groupCtx, &candidates[i], vacancy, query.Force)
			if err != nil {
				return errors.Wrapf(err, "score candidate %d", candidates[i].ID)
			}
			if result != nil {
				ranked[i].attach(result)
			}
			return nil
		})
	}

	if err = group.Wait(); err != nil {
		return nil, err
	}

	ranked = lo.Filter(ranked, func(c RankedCandidate, _ int) bool {
		return c.MatchingScore == nil || *c.MatchingScore >= query.MinScore
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedBefore(ranked[i], ranked[j])
	})
	return ranked, nil
}

// rankedBefore orders by score descending then id ascending; unscored candidates go last.
func rankedBefore(a, b RankedCandidate) bool {
	switch {
	case a.MatchingScore != nil && b.MatchingScore == nil:
		return true
	case a.MatchingScore == nil && b.MatchingScore != nil:
		return false
	case a.MatchingScore != nil && *a.MatchingScore != *b.MatchingScore:
		return *a.MatchingScore > *b.MatchingScore
	default:
		return a.ID < b.ID
	}
}

// Discard removes the stored result of the pair, so the next ranking recomputes it.
func (r *Ranking) Discard(ctx context.Context, candidateID, vacancyID int64) (bool, error) {
	deleted, err := r.store.Delete(ctx, candidateID, vacancyID)
	if err != nil {
		return false, err
	}

	if deleted {
		r.bus.Publish(events.MatchDiscardedTopic, events.MatchDiscarded{
			CandidateID: candidateID,
			VacancyID:   vacancyID,
		})
	}
	return deleted, nil
}
