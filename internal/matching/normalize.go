package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces  = regexp.MustCompile(`\s+`)
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Synonyms maps normalized aliases to their canonical normalized form.
type Synonyms map[string]string

// NewSynonyms normalizes both sides of the given alias table.
func NewSynonyms(aliases map[string]string) Synonyms {
	s := make(Synonyms, len(aliases))
	for alias, canonical := range aliases {
		s[Normalize(alias)] = Normalize(canonical)
	}
	return s
}

// DefaultLocationSynonyms covers the regional aliases seen in resumes.
func DefaultLocationSynonyms() Synonyms {
	return NewSynonyms(map[string]string{
		"питер":           "санкт-петербург",
		"спб":             "санкт-петербург",
		"санкт-петербург": "санкт-петербург",
		"мск":             "москва",
		"москва":          "москва",
		"екб":             "екатеринбург",
		"нск":             "новосибирск",
	})
}

// Normalize lower-cases the text, folds letter variants to their base form (ё -> е),
// turns hyphens into spaces and collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(foldDiacritics(text))
	text = strings.ReplaceAll(text, "-", " ")
	text = reSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeCategorical normalizes the text and resolves it through the synonym table.
func NormalizeCategorical(text string, synonyms Synonyms) string {
	cleaned := Normalize(text)
	if canonical, ok := synonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}

func tokens(text string) []string {
	return strings.Fields(reNonWord.ReplaceAllString(text, " "))
}

func foldDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}
