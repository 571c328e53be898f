package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Normalize_FoldsCaseLetterVariantsAndHyphens(t *testing.T) {
	assert.Equal(t, "санкт петербург", Normalize("  Санкт-Петербург "))
	assert.Equal(t, "елки палки", Normalize("Ёлки-палки"))
	assert.Equal(t, "full time", Normalize("Full   -Time"))
}

func Test_NormalizeCategorical_ResolvesSynonyms(t *testing.T) {
	synonyms := DefaultLocationSynonyms()

	assert.Equal(t, "санкт петербург", NormalizeCategorical("Питер", synonyms))
	assert.Equal(t, "санкт петербург", NormalizeCategorical("СПб", synonyms))
	assert.Equal(t, "москва", NormalizeCategorical("мск", synonyms))
	assert.Equal(t, "казань", NormalizeCategorical("Казань", synonyms))
}

func Test_NormalizeCategorical_WithoutTable_ReturnsCleanedText(t *testing.T) {
	assert.Equal(t, "питер", NormalizeCategorical("Питер", nil))
}
