package matching

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/samber/lo"
)

// SetSimilarity is the Jaccard index of two item lists after normalization.
// An empty side yields 0.
func SetSimilarity(a, b []string) float64 {
	setA, setB := atoms(a), atoms(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common := lo.Intersect(setA, setB)
	union := lo.Union(setA, setB)
	return float64(len(common)) / float64(len(union))
}

// NumericSimilarity is 1 - |a-b| / max(|a|,|b|,1), or 0 when either side does not parse.
func NumericSimilarity(a, b models.Number) float64 {
	x, okX := a.Float()
	y, okY := b.Float()
	if !okX || !okY || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0
	}

	scale := math.Max(math.Max(math.Abs(x), math.Abs(y)), 1)
	return 1 - math.Min(math.Abs(x-y)/scale, 1)
}

// TextSimilarity compares two texts ignoring token order: tokens are normalized, sorted
// and joined, then compared with a normalized edit distance. A side without any word scores 0.
func TextSimilarity(a, b string) float64 {
	sortedA, sortedB := sortedTokens(a), sortedTokens(b)
	if sortedA == "" || sortedB == "" {
		return 0
	}
	if sortedA == sortedB {
		return 1
	}

	longest := max(utf8.RuneCountInString(sortedA), utf8.RuneCountInString(sortedB))
	distance := levenshtein.ComputeDistance(sortedA, sortedB)
	return 1 - math.Min(float64(distance)/float64(longest), 1)
}

func sortedTokens(text string) string {
	words := tokens(Normalize(text))
	sort.Strings(words)
	return strings.Join(words, " ")
}

func atoms(items []string) []string {
	normalized := lo.FilterMap(items, func(item string, _ int) (string, bool) {
		n := Normalize(item)
		return n, n != ""
	})
	return lo.Uniq(normalized)
}
