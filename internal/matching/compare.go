package matching

import (
	"fmt"
	"strings"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/samber/lo"
)

// Comparison is the outcome of comparing one field of a candidate and a vacancy.
type Comparison struct {
	Key    string
	Score  models.FieldScore
	Reason string
	// Missing lists vacancy items the candidate does not have (set fields only).
	Missing []string
}

// Compare applies the similarity function of the field kind. The Unknown rule is
// checked before any similarity is computed.
func Compare(spec FieldSpec, candidate *models.Candidate, vacancy *models.Vacancy) Comparison {
	c, v := spec.Candidate(candidate), spec.Vacancy(vacancy)

	switch {
	case !c.Present && !v.Present:
		return Comparison{Key: spec.Key, Score: models.Unknown(), Reason: "not specified"}
	case !c.Present:
		return Comparison{Key: spec.Key, Score: models.Unknown(), Reason: "not specified for the candidate"}
	case !v.Present:
		return Comparison{Key: spec.Key, Score: models.Unknown(), Reason: "not specified for the vacancy"}
	}

	switch spec.Kind {
	case KindSet:
		return compareSets(spec.Key, c.Items, v.Items)
	case KindNumeric:
		return compareNumbers(spec.Key, models.Number(c.Text), models.Number(v.Text))
	default:
		return compareTexts(spec, c.Text, v.Text)
	}
}

// CompareAll compares every field of the table, in table order.
func CompareAll(fields Fields, candidate *models.Candidate, vacancy *models.Vacancy) []Comparison {
	return lo.Map(fields, func(spec FieldSpec, _ int) Comparison {
		return Compare(spec, candidate, vacancy)
	})
}

// Scores collects comparison scores by field key.
func Scores(comparisons []Comparison) map[string]models.FieldScore {
	return lo.SliceToMap(comparisons, func(c Comparison) (string, models.FieldScore) {
		return c.Key, c.Score
	})
}

func compareSets(key string, candidateItems, vacancyItems []string) Comparison {
	have, want := atoms(candidateItems), atoms(vacancyItems)
	missing := lo.Without(want, have...)
	common := lo.Intersect(have, want)

	reason := fmt.Sprintf("%d common of %d distinct items", len(common), len(lo.Union(have, want)))
	if len(missing) > 0 {
		reason += "; missing: " + strings.Join(missing, ", ")
	}

	return Comparison{
		Key:     key,
		Score:   models.Score(SetSimilarity(candidateItems, vacancyItems)),
		Reason:  reason,
		Missing: missing,
	}
}

func compareNumbers(key string, candidate, vacancy models.Number) Comparison {
	_, okC := candidate.Float()
	_, okV := vacancy.Float()

	reason := fmt.Sprintf("candidate %s, vacancy %s", candidate, vacancy)
	if !okC || !okV {
		reason = fmt.Sprintf("cannot compare %q with %q", candidate, vacancy)
	}
	return Comparison{Key: key, Score: models.Score(NumericSimilarity(candidate, vacancy)), Reason: reason}
}

func compareTexts(spec FieldSpec, candidate, vacancy string) Comparison {
	c := NormalizeCategorical(candidate, spec.Synonyms)
	v := NormalizeCategorical(vacancy, spec.Synonyms)
	return Comparison{
		Key:    spec.Key,
		Score:  models.Score(TextSimilarity(c, v)),
		Reason: fmt.Sprintf("%q compared with %q", c, v),
	}
}
