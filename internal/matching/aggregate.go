package matching

import (
	"math"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
)

// NeutralScore is the overall score when no field could be compared.
const NeutralScore = 0.5

// Aggregate combines field scores expressed on [0, maxFieldValue] into an overall score in [0,1].
// Unknown and missing fields are skipped and the remaining weights renormalized.
func Aggregate(fields Fields, scores map[string]models.FieldScore, maxFieldValue float64) float64 {
	var sum, denominator float64

	for _, spec := range fields {
		if spec.Key == FieldFinal {
			continue
		}
		score, ok := scores[spec.Key]
		if !ok || !score.Known {
			continue
		}
		sum += score.Value * spec.Weight
		denominator += spec.Weight * maxFieldValue
	}

	if denominator == 0 {
		return NeutralScore
	}
	return math.Max(0, math.Min(1, sum/denominator))
}
