package services

import (
	"context"
	"sync"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type mockAiClient struct {
	mock.Mock
}

func (m *mockAiClient) GenerateResponse(ctx context.Context, request string) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

type mockExternalScorer struct {
	mock.Mock
}

func (m *mockExternalScorer) Evaluate(ctx context.Context, candidate *models.Candidate,
	vacancy *models.Vacancy) (*Evaluation, error) {

	args := m.Called(ctx, candidate, vacancy)
	eval, _ := args.Get(0).(*Evaluation)
	return eval, args.Error(1)
}

type memoryStore struct {
	mu      sync.Mutex
	results map[[2]int64]models.MatchResult
	deletes int
	puts    int
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{results: map[[2]int64]models.MatchResult{}}
}

func (s *memoryStore) Get(_ context.Context, candidateID, vacancyID int64) (*models.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	result, found := s.results[[2]int64{candidateID, vacancyID}]
	if !found {
		return nil, nil
	}
	return &result, nil
}

func (s *memoryStore) Put(ctx context.Context, result *models.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.puts++
	s.results[[2]int64{result.CandidateID, result.VacancyID}] = *result
	return nil
}

func (s *memoryStore) Delete(_ context.Context, candidateID, vacancyID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	s.deletes++
	key := [2]int64{candidateID, vacancyID}
	_, found := s.results[key]
	delete(s.results, key)
	return found, nil
}
