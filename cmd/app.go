package main

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hr-matcher/internal/clients/gemini"
	"github.com/maxaizer/hr-matcher/internal/config"
	"github.com/maxaizer/hr-matcher/internal/domain/events"
	"github.com/maxaizer/hr-matcher/internal/logger"
	"github.com/maxaizer/hr-matcher/internal/matching"
	"github.com/maxaizer/hr-matcher/internal/metrics"
	"github.com/maxaizer/hr-matcher/internal/repositories"
	"github.com/maxaizer/hr-matcher/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type app struct {
	cfg        *config.Config
	bus        EventBus.Bus
	db         *repositories.DbContext
	candidates *repositories.Candidates
	vacancies  *repositories.Vacancies
	results    *repositories.CachedMatchResults
	scorer     *services.MatchScorer
	ranking    *services.Ranking
	catalog    *services.Catalog
	aiClient   *gemini.Client
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	metrics.Register()

	synonyms := matching.DefaultLocationSynonyms()
	if len(cfg.Matching.LocationSynonyms) > 0 {
		synonyms = matching.NewSynonyms(cfg.Matching.LocationSynonyms)
	}

	fields, err := matching.DefaultFields(synonyms).WithWeights(cfg.Matching.Weights)
	if err != nil {
		return nil, errors.Wrap(err, "matching weights")
	}

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		return nil, errors.Wrap(err, "create db context")
	}

	if err = dbContext.Migrate(); err != nil {
		_ = dbContext.Close()
		return nil, errors.Wrap(err, "migrate db")
	}

	a := &app{
		cfg:        cfg,
		bus:        EventBus.New(),
		db:         dbContext,
		candidates: repositories.NewCandidatesRepository(dbContext.DB),
		vacancies:  repositories.NewVacanciesRepository(dbContext.DB),
	}

	a.results, err = repositories.NewCachedMatchResults(repositories.NewMatchResultsRepository(dbContext.DB), a.bus)
	if err != nil {
		a.Close()
		return nil, err
	}

	local := services.NewLocalScorer(fields)
	if cfg.Scorer.UseExternal() {
		a.aiClient, err = newAIClient(ctx, cfg.Scorer)
		if err != nil {
			a.Close()
			return nil, errors.Wrap(err, "create AI client")
		}
		a.scorer = services.NewMatchScorer(a.bus, a.results, services.NewAIScorer(a.aiClient, fields),
			local, cfg.Scorer.ExternalTimeout)
	} else {
		log.Info("external scorer is not configured, using local scorer only")
		a.scorer = services.NewMatchScorer(a.bus, a.results, nil, local, cfg.Scorer.ExternalTimeout)
	}

	a.ranking = services.NewRanking(a.bus, a.candidates, a.vacancies, a.scorer, a.results, cfg.Ranking.Concurrency)
	a.catalog = services.NewCatalog(a.bus, a.candidates, a.vacancies,
		repositories.NewStatisticsRepository(dbContext.DB))

	if err = subscribeEventLogging(a.bus); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func newAIClient(ctx context.Context, cfg config.ScorerConfig) (*gemini.Client, error) {
	client, err := gemini.NewClient(ctx, cfg.AIKey, gemini.Model(cfg.AIModel))
	if err != nil {
		return nil, err
	}
	client.SetMaxRetries(cfg.MaxRetries)
	client.SetMinuteRateLimit(cfg.AiMaxRequestsPerMinute)
	client.SetDayRateLimit(cfg.AiMaxRequestsPerDay)
	return client, nil
}

func subscribeEventLogging(bus EventBus.Bus) error {
	if err := bus.Subscribe(events.MatchScoredTopic, onMatchScored); err != nil {
		return err
	}
	return bus.Subscribe(events.MatchDiscardedTopic, onMatchDiscarded)
}

func onMatchScored(event events.MatchScored) {
	log.WithFields(log.Fields{
		"candidate_id": event.CandidateID,
		"vacancy_id":   event.VacancyID,
		"backend":      event.Backend,
		"forced":       event.Forced,
	}).Debugf("match scored: %.3f", event.Score)
}

func onMatchDiscarded(event events.MatchDiscarded) {
	log.WithFields(log.Fields{
		"candidate_id": event.CandidateID,
		"vacancy_id":   event.VacancyID,
	}).Debug("match discarded")
}

func (a *app) Close() {
	if a.aiClient != nil {
		if err := a.aiClient.Close(); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("closing AI client: %v", err)
		}
	}
	if err := a.db.Close(); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("closing db: %v", err)
	}
}
