package services

import (
	"github.com/maxaizer/hr-matcher/internal/domain/models"
)

// Evaluation is what a scoring backend produces for one candidate and vacancy.
// Score is in [0,1].
type Evaluation struct {
	Score      float64
	Fields     map[string]models.FieldScore
	Reasons    map[string]string
	Assessment string
	Questions  []string
}

func (e *Evaluation) toResult(candidateID, vacancyID int64, backend string) *models.MatchResult {
	result := models.NewMatchResult(candidateID, vacancyID, e.Score)
	result.Fields = e.Fields
	result.Reasons = e.Reasons
	result.Assessment = e.Assessment
	result.InterviewQuestions = e.Questions
	result.Backend = backend
	return result
}
