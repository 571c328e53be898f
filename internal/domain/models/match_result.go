package models

import (
	"encoding/json"
	"math"
	"time"
)

// FieldScore is a similarity in [0,1] or Unknown when the field could not be compared.
type FieldScore struct {
	Value float64
	Known bool
}

func Score(value float64) FieldScore {
	return FieldScore{Value: math.Max(0, math.Min(1, value)), Known: true}
}

func Unknown() FieldScore {
	return FieldScore{}
}

func (f FieldScore) MarshalJSON() ([]byte, error) {
	if !f.Known {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *FieldScore) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Unknown()
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*f = Score(value)
	return nil
}

const (
	BackendExternal = "external"
	BackendLocal    = "local"
)

// MatchResult is the persisted outcome of scoring one candidate against one vacancy.
// Score is kept in percent, Fraction converts it back to [0,1].
type MatchResult struct {
	CandidateID        int64                 `json:"candidate_id" gorm:"primaryKey;autoIncrement:false"`
	VacancyID          int64                 `json:"vacancy_id" gorm:"primaryKey;autoIncrement:false;index"`
	Score              float64               `json:"score"`
	Fields             map[string]FieldScore `json:"fields" gorm:"serializer:json"`
	Reasons            map[string]string     `json:"reasons" gorm:"serializer:json"`
	Assessment         string                `json:"assessment"`
	InterviewQuestions []string              `json:"interview_questions" gorm:"serializer:json"`
	Backend            string                `json:"backend"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`

	Candidate *Candidate `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Vacancy   *Vacancy   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func NewMatchResult(candidateID, vacancyID int64, fraction float64) *MatchResult {
	return &MatchResult{
		CandidateID: candidateID,
		VacancyID:   vacancyID,
		Score:       fraction * 100,
		Fields:      map[string]FieldScore{},
		Reasons:     map[string]string{},
	}
}

func (r *MatchResult) Fraction() float64 {
	return r.Score / 100
}

// Percentage is the fraction rounded to one decimal place, in percent.
func Percentage(fraction float64) float64 {
	return math.Round(fraction*1000) / 10
}

type Stats struct {
	Vacancies       int64 `json:"total_vacancies"`
	ActiveVacancies int64 `json:"active_vacancies"`
	Candidates      int64 `json:"total_candidates"`
	NewCandidates   int64 `json:"new_candidates"`
	MatchResults    int64 `json:"total_matches"`
}
