package matching

import (
	"fmt"
	"strings"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Kind selects the comparison strategy of a field.
type Kind int

const (
	KindSet Kind = iota
	KindNumeric
	KindFreeText
)

func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindNumeric:
		return "numeric"
	case KindFreeText:
		return "free_text"
	default:
		return "unknown"
	}
}

const (
	FieldAge            = "age"
	FieldLocation       = "location"
	FieldPosition       = "position"
	FieldEmploymentType = "employment_type"
	FieldDesiredSalary  = "desired_salary"
	FieldWorkExperience = "work_exp"
	FieldEducation      = "education"
	FieldSkills         = "skills"
	FieldSkillsTech     = "skills_tech"
	FieldLanguages      = "languages"

	// FieldFinal carries the overall narrative and never takes part in aggregation.
	FieldFinal = "final_score"
)

var ErrUnknownWeightKey = errors.New("unknown field in weights")

// Value is one side of a field comparison. Text is used by numeric and free-text fields,
// Items by set fields.
type Value struct {
	Text    string
	Items   []string
	Present bool
}

// TextValue is present only when the text holds at least one letter or digit,
// so placeholders like "-" or "?" count as Unknown.
func TextValue(text string) Value {
	return Value{Text: text, Present: len(tokens(text)) > 0}
}

func NumberValue(n models.Number) Value {
	return Value{Text: n.String(), Present: !n.IsEmpty()}
}

// ListValue keeps the difference between a list that was never populated (nil)
// and a list declared empty.
func ListValue(items []string) Value {
	return Value{Items: items, Present: items != nil}
}

type leafer interface {
	Leaves() []string
}

// FlattenValue unwraps structured items into the flat list of their leaf strings.
func FlattenValue[T leafer](items []T) Value {
	if items == nil {
		return Value{}
	}
	leaves := lo.FlatMap(items, func(item T, _ int) []string { return item.Leaves() })
	if leaves == nil {
		leaves = []string{}
	}
	return Value{Items: leaves, Present: true}
}

// NarrativeValue joins the leaves of structured items into one free-text value.
func NarrativeValue[T leafer](items ...T) Value {
	leaves := lo.FlatMap(items, func(item T, _ int) []string { return item.Leaves() })
	return TextValue(strings.Join(leaves, " "))
}

type FieldSpec struct {
	Key       string
	Kind      Kind
	Weight    float64
	Synonyms  Synonyms
	Candidate func(*models.Candidate) Value
	Vacancy   func(*models.Vacancy) Value
}

type Fields []FieldSpec

// DefaultFields is the ordered comparison table shared by both scorer backends.
func DefaultFields(locationSynonyms Synonyms) Fields {
	return Fields{
		{
			Key: FieldAge, Kind: KindNumeric, Weight: 0.3,
			Candidate: func(c *models.Candidate) Value { return NumberValue(c.Age) },
			Vacancy:   func(v *models.Vacancy) Value { return NumberValue(v.Age) },
		},
		{
			Key: FieldLocation, Kind: KindFreeText, Weight: 0.6, Synonyms: locationSynonyms,
			Candidate: func(c *models.Candidate) Value { return TextValue(c.Location) },
			Vacancy:   func(v *models.Vacancy) Value { return TextValue(v.Location) },
		},
		{
			Key: FieldPosition, Kind: KindFreeText, Weight: 1,
			Candidate: func(c *models.Candidate) Value { return TextValue(c.DesiredPosition) },
			Vacancy:   func(v *models.Vacancy) Value { return TextValue(v.Position()) },
		},
		{
			Key: FieldEmploymentType, Kind: KindFreeText, Weight: 0.8,
			Candidate: func(c *models.Candidate) Value { return TextValue(c.EmploymentType) },
			Vacancy:   func(v *models.Vacancy) Value { return TextValue(v.EmploymentType) },
		},
		{
			Key: FieldDesiredSalary, Kind: KindNumeric, Weight: 0.6,
			Candidate: func(c *models.Candidate) Value { return NumberValue(c.DesiredSalary) },
			Vacancy:   func(v *models.Vacancy) Value { return NumberValue(v.Salary()) },
		},
		{
			Key: FieldWorkExperience, Kind: KindFreeText, Weight: 0.8,
			Candidate: func(c *models.Candidate) Value { return NarrativeValue(c.WorkExperience...) },
			Vacancy:   func(v *models.Vacancy) Value { return NarrativeValue(v.WorkExperience) },
		},
		{
			Key: FieldEducation, Kind: KindFreeText, Weight: 0.8,
			Candidate: func(c *models.Candidate) Value { return TextValue(c.EducationLevel) },
			Vacancy:   func(v *models.Vacancy) Value { return TextValue(v.EducationLevel) },
		},
		{
			Key: FieldSkills, Kind: KindSet, Weight: 1,
			Candidate: func(c *models.Candidate) Value { return ListValue(c.Skills) },
			Vacancy:   func(v *models.Vacancy) Value { return ListValue(v.Skills) },
		},
		{
			Key: FieldSkillsTech, Kind: KindSet, Weight: 1,
			Candidate: func(c *models.Candidate) Value { return ListValue(c.SkillsTechnologies) },
			Vacancy:   func(v *models.Vacancy) Value { return ListValue(v.SkillsTechnologies) },
		},
		{
			Key: FieldLanguages, Kind: KindSet, Weight: 0.5,
			Candidate: func(c *models.Candidate) Value { return FlattenValue(c.Languages) },
			Vacancy:   func(v *models.Vacancy) Value { return FlattenValue(v.Languages) },
		},
	}
}

// WithWeights returns a copy of the table with the given weights overridden.
func (f Fields) WithWeights(weights map[string]float64) (Fields, error) {
	out := make(Fields, len(f))
	copy(out, f)

	for key, weight := range weights {
		idx := lo.IndexOf(out.Keys(), key)
		if idx < 0 {
			return nil, errors.Wrapf(ErrUnknownWeightKey, "%q", key)
		}
		if weight < 0 {
			return nil, fmt.Errorf("weight of %q must not be negative", key)
		}
		out[idx].Weight = weight
	}
	return out, nil
}

func (f Fields) Keys() []string {
	return lo.Map(f, func(spec FieldSpec, _ int) string { return spec.Key })
}

func (f Fields) Get(key string) (FieldSpec, bool) {
	return lo.Find(f, func(spec FieldSpec) bool { return spec.Key == key })
}
