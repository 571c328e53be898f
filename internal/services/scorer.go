package services

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hr-matcher/internal/domain/events"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/logger"
	"github.com/maxaizer/hr-matcher/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var ErrScorerDisabled = errors.New("external scorer is disabled")

type matchResultStore interface {
	Get(ctx context.Context, candidateID, vacancyID int64) (*models.MatchResult, error)
	Put(ctx context.Context, result *models.MatchResult) error
	Delete(ctx context.Context, candidateID, vacancyID int64) (bool, error)
}

type externalScorer interface {
	Evaluate(ctx context.Context, candidate *models.Candidate, vacancy *models.Vacancy) (*Evaluation, error)
}

// MatchScorer resolves the match result of a pair, computing it only when none is stored
// or when recomputation is forced. The external backend is tried first and any failure
// of it is answered by the local scorer.
type MatchScorer struct {
	bus      EventBus.Bus
	store    matchResultStore
	external externalScorer
	local    *LocalScorer
	timeout  time.Duration
	inFlight singleflight.Group
}

// NewMatchScorer creates a scorer. external may be nil, then only the local scorer runs.
func NewMatchScorer(bus EventBus.Bus, store matchResultStore, external externalScorer,
	local *LocalScorer, externalTimeout time.Duration) *MatchScorer {

	return &MatchScorer{
		bus:      bus,
		store:    store,
		external: external,
		local:    local,
		timeout:  externalTimeout,
	}
}

func (s *MatchScorer) Score(ctx context.Context, candidate *models.Candidate, vacancy *models.Vacancy,
	force bool) (*models.MatchResult, error) {

	if candidate == nil || vacancy == nil {
		return nil, nil
	}

	if !force {
		existing, err := s.store.Get(ctx, candidate.ID, vacancy.ID)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	// The flight outlives any single caller: it ignores cancellation of ctx, and each
	// caller stops waiting on its own ctx only.
	key := fmt.Sprintf("%d:%d:%t", candidate.ID, vacancy.ID, force)
	flight := s.inFlight.DoChan(key, func() (interface{}, error) {
		return s.compute(context.WithoutCancel(ctx), candidate, vacancy, force)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.MatchResult), nil
	}
}

func (s *MatchScorer) compute(ctx context.Context, candidate *models.Candidate, vacancy *models.Vacancy,
	force bool) (*models.MatchResult, error) {

	if force {
		if _, err := s.store.Delete(ctx, candidate.ID, vacancy.ID); err != nil {
			return nil, err
		}
	} else {
		existing, err := s.store.Get(ctx, candidate.ID, vacancy.ID)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	start := time.Now()
	eval, backend := s.evaluate(ctx, candidate, vacancy)
	metrics.ScoringDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

	result := eval.toResult(candidate.ID, vacancy.ID, backend)
	if err := s.store.Put(ctx, result); err != nil {
		return nil, err
	}

	s.bus.Publish(events.MatchScoredTopic, events.MatchScored{
		CandidateID: candidate.ID,
		VacancyID:   vacancy.ID,
		Score:       eval.Score,
		Backend:     backend,
		Forced:      force,
	})
	return result, nil
}

func (s *MatchScorer) evaluate(ctx context.Context, candidate *models.Candidate,
	vacancy *models.Vacancy) (*Evaluation, string) {

	eval, err := s.evaluateExternally(ctx, candidate, vacancy)
	if err == nil {
		return eval, models.BackendExternal
	}

	if !errors.Is(err, ErrScorerDisabled) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
			Errorf("external scoring of candidate %d for vacancy %d failed, using local scorer: %v",
				candidate.ID, vacancy.ID, err)
		metrics.ScorerFallbacksCounter.Inc()
	}

	return s.local.Evaluate(candidate, vacancy), models.BackendLocal
}

func (s *MatchScorer) evaluateExternally(ctx context.Context, candidate *models.Candidate,
	vacancy *models.Vacancy) (*Evaluation, error) {

	if s.external == nil {
		return nil, ErrScorerDisabled
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.external.Evaluate(ctx, candidate, vacancy)
}
