package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hr-matcher/internal/domain/events"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
)

type matchResultRepository interface {
	Get(ctx context.Context, candidateID, vacancyID int64) (*models.MatchResult, error)
	Put(ctx context.Context, result *models.MatchResult) error
	Delete(ctx context.Context, candidateID, vacancyID int64) (bool, error)
	ListByVacancy(ctx context.Context, vacancyID int64) ([]models.MatchResult, error)
	RemoveOrphaned(ctx context.Context) (int64, error)
}

// CachedMatchResults keeps recently read or written results in memory.
// Entries of deleted candidates and vacancies are evicted on the bus events.
type CachedMatchResults struct {
	repo  matchResultRepository
	cache *gocache.Cache
}

func NewCachedMatchResults(repo matchResultRepository, bus EventBus.Bus) (*CachedMatchResults, error) {
	c := &CachedMatchResults{repo: repo, cache: gocache.New(10*time.Minute, 20*time.Minute)}

	if err := bus.Subscribe(events.CandidateDeletedTopic, c.onCandidateDeleted); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.VacancyDeletedTopic, c.onVacancyDeleted); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CachedMatchResults) Get(ctx context.Context, candidateID, vacancyID int64) (*models.MatchResult, error) {
	key := cacheKey(candidateID, vacancyID)
	if value, found := c.cache.Get(key); found {
		metrics.StoreCacheCounter.WithLabelValues("hit").Inc()
		result := value.(models.MatchResult)
		return &result, nil
	}
	metrics.StoreCacheCounter.WithLabelValues("miss").Inc()

	result, err := c.repo.Get(ctx, candidateID, vacancyID)
	if err != nil || result == nil {
		return result, err
	}

	c.cache.Set(key, *result, gocache.DefaultExpiration)
	return result, nil
}

func (c *CachedMatchResults) Put(ctx context.Context, result *models.MatchResult) error {
	key := cacheKey(result.CandidateID, result.VacancyID)
	if err := c.repo.Put(ctx, result); err != nil {
		c.cache.Delete(key)
		return err
	}

	c.cache.Set(key, *result, gocache.DefaultExpiration)
	return nil
}

func (c *CachedMatchResults) Delete(ctx context.Context, candidateID, vacancyID int64) (bool, error) {
	c.cache.Delete(cacheKey(candidateID, vacancyID))
	return c.repo.Delete(ctx, candidateID, vacancyID)
}

func (c *CachedMatchResults) ListByVacancy(ctx context.Context, vacancyID int64) ([]models.MatchResult, error) {
	return c.repo.ListByVacancy(ctx, vacancyID)
}

func (c *CachedMatchResults) RemoveOrphaned(ctx context.Context) (int64, error) {
	c.cache.Flush()
	return c.repo.RemoveOrphaned(ctx)
}

func (c *CachedMatchResults) onCandidateDeleted(event events.CandidateDeleted) {
	c.evict(func(candidateID, _ int64) bool { return candidateID == event.CandidateID })
}

func (c *CachedMatchResults) onVacancyDeleted(event events.VacancyDeleted) {
	c.evict(func(_, vacancyID int64) bool { return vacancyID == event.VacancyID })
}

func (c *CachedMatchResults) evict(match func(candidateID, vacancyID int64) bool) {
	for key := range c.cache.Items() {
		candidateID, vacancyID, ok := parseCacheKey(key)
		if !ok || match(candidateID, vacancyID) {
			c.cache.Delete(key)
		}
	}
}

func cacheKey(candidateID, vacancyID int64) string {
	return fmt.Sprintf("%d:%d", candidateID, vacancyID)
}

func parseCacheKey(key string) (int64, int64, bool) {
	left, right, found := strings.Cut(key, ":")
	if !found {
		return 0, 0, false
	}
	candidateID, err := strconv.ParseInt(left, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	vacancyID, err := strconv.ParseInt(right, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return candidateID, vacancyID, true
}
