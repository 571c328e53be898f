package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/matching"
	"github.com/samber/lo"
)

const maxInterviewQuestions = 5

// LocalScorer compares fields directly. It has no state and never fails.
type LocalScorer struct {
	fields matching.Fields
}

func NewLocalScorer(fields matching.Fields) *LocalScorer {
	return &LocalScorer{fields: fields}
}

func (l *LocalScorer) Evaluate(candidate *models.Candidate, vacancy *models.Vacancy) *Evaluation {
	comparisons := matching.CompareAll(l.fields, candidate, vacancy)
	scores := matching.Scores(comparisons)
	overall := matching.Aggregate(l.fields, scores, 1)

	return &Evaluation{
		Score:  overall,
		Fields: scores,
		Reasons: lo.SliceToMap(comparisons, func(c matching.Comparison) (string, string) {
			return c.Key, c.Reason
		}),
		Assessment: assessment(comparisons, overall),
		Questions:  interviewQuestions(comparisons),
	}
}

func assessment(comparisons []matching.Comparison, overall float64) string {
	known := lo.Filter(comparisons, func(c matching.Comparison, _ int) bool { return c.Score.Known })
	if len(known) == 0 {
		return fmt.Sprintf("No comparable fields, neutral score %.1f%%.", models.Percentage(overall))
	}

	strongest, weakest := known[0], known[0]
	for _, c := range known[1:] {
		if c.Score.Value > strongest.Score.Value {
			strongest = c
		}
		if c.Score.Value < weakest.Score.Value {
			weakest = c
		}
	}

	return fmt.Sprintf("Compared %d of %d fields, overall %.1f%%. Strongest: %s (%.1f%%). Weakest: %s (%.1f%%).",
		len(known), len(comparisons), models.Percentage(overall),
		strongest.Key, models.Percentage(strongest.Score.Value),
		weakest.Key, models.Percentage(weakest.Score.Value))
}

// interviewQuestions asks about vacancy skills the candidate does not list.
func interviewQuestions(comparisons []matching.Comparison) []string {
	var missing []string
	for _, c := range comparisons {
		if c.Key == matching.FieldSkills || c.Key == matching.FieldSkillsTech {
			missing = append(missing, c.Missing...)
		}
	}

	missing = lo.Uniq(missing)
	sort.Strings(missing)
	if len(missing) > maxInterviewQuestions {
		missing = missing[:maxInterviewQuestions]
	}

	return lo.Map(missing, func(skill string, _ int) string {
		return fmt.Sprintf("What is your experience with %s?", strings.TrimSpace(skill))
	})
}
