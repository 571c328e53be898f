package services

import (
	"context"

	"github.com/maxaizer/hr-matcher/internal/logger"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type orphanedResultsRepository interface {
	RemoveOrphaned(ctx context.Context) (int64, error)
}

// ResultsCleaner periodically removes match results whose candidate or vacancy is gone.
type ResultsCleaner struct {
	results orphanedResultsRepository
	cron    *cron.Cron
}

func NewResultsCleaner(results orphanedResultsRepository, schedule string) (*ResultsCleaner, error) {

	rc := &ResultsCleaner{
		results: results,
		cron:    cron.New(),
	}

	_, err := rc.cron.AddFunc(schedule, rc.Clean)
	if err != nil {
		return nil, err
	}

	rc.cron.Start()
	log.Infof("results cleaner started, schedule: %s", schedule)
	return rc, nil
}

func (rc *ResultsCleaner) Stop() {
	<-rc.cron.Stop().Done()
}

func (rc *ResultsCleaner) Clean() {
	rowsAffected, err := rc.results.RemoveOrphaned(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("Failed to clean orphaned match results: %v", err)
	} else {
		log.Infof("Orphaned match results were cleaned, affected rows: %v", rowsAffected)
	}
}
