package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/matching"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

//go:embed prompt.md
var promptTemplate string

// maxExternalScore is the upper bound of the external per-field scale.
const maxExternalScore = 10

// notComparable marks a field the external scorer could not judge.
const notComparable = -1

var ErrMalformedResponse = errors.New("malformed scorer response")

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// AIScorer asks a language model for a per-field opinion and aggregates it.
type AIScorer struct {
	aiClient aiClient
	fields   matching.Fields
}

func NewAIScorer(aiClient aiClient, fields matching.Fields) *AIScorer {
	return &AIScorer{aiClient: aiClient, fields: fields}
}

func (a *AIScorer) Evaluate(ctx context.Context, candidate *models.Candidate, vacancy *models.Vacancy) (*Evaluation, error) {
	request, err := a.request(candidate, vacancy)
	if err != nil {
		return nil, err
	}

	response, err := a.aiClient.GenerateResponse(ctx, request)
	if err != nil {
		return nil, err
	}

	log.Debugf("got scorer response for candidate %d and vacancy %d: %s", candidate.ID, vacancy.ID, response)
	return a.parse(response)
}

func (a *AIScorer) request(candidate *models.Candidate, vacancy *models.Vacancy) (string, error) {
	candidateSide := make(map[string]any, len(a.fields))
	vacancySide := make(map[string]any, len(a.fields))

	for _, spec := range a.fields {
		candidateSide[spec.Key] = payloadValue(spec.Kind, spec.Candidate(candidate))
		vacancySide[spec.Key] = payloadValue(spec.Kind, spec.Vacancy(vacancy))
	}

	payload, err := json.MarshalIndent(map[string]any{
		"vacancy":   vacancySide,
		"candidate": candidateSide,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	return strings.NewReplacer(
		"{{fields}}", strings.Join(a.fields.Keys(), ", "),
		"{{payload}}", string(payload),
	).Replace(promptTemplate), nil
}

func payloadValue(kind matching.Kind, value matching.Value) any {
	if !value.Present {
		return nil
	}
	if kind == matching.KindSet {
		return value.Items
	}
	return value.Text
}

// parse validates the reply strictly: every declared field needs a numeric score that is
// either -1 or on the 0-10 scale plus a reason, and final_score needs a reason.
func (a *AIScorer) parse(response string) (*Evaluation, error) {
	raw := extractJSON(response)
	if !gjson.Valid(raw) {
		return nil, errors.Wrap(ErrMalformedResponse, "not a json document")
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, errors.Wrap(ErrMalformedResponse, "not a json object")
	}

	eval := &Evaluation{
		Fields:  make(map[string]models.FieldScore, len(a.fields)),
		Reasons: make(map[string]string, len(a.fields)+1),
	}

	for _, spec := range a.fields {
		field := root.Get(spec.Key)
		if !field.IsObject() {
			return nil, errors.Wrapf(ErrMalformedResponse, "field %q is missing", spec.Key)
		}

		score, reason := field.Get("score"), field.Get("reason")
		if score.Type != gjson.Number {
			return nil, errors.Wrapf(ErrMalformedResponse, "field %q has no numeric score", spec.Key)
		}
		if reason.Type != gjson.String {
			return nil, errors.Wrapf(ErrMalformedResponse, "field %q has no reason", spec.Key)
		}

		value := score.Float()
		switch {
		case value == notComparable:
			eval.Fields[spec.Key] = models.Unknown()
		case value >= 0 && value <= maxExternalScore:
			eval.Fields[spec.Key] = models.Score(value / maxExternalScore)
		default:
			return nil, errors.Wrapf(ErrMalformedResponse, "field %q score %v is out of range", spec.Key, value)
		}
		eval.Reasons[spec.Key] = reason.String()
	}

	final := root.Get(matching.FieldFinal)
	if !final.IsObject() || final.Get("reason").Type != gjson.String {
		return nil, errors.Wrapf(ErrMalformedResponse, "%q has no reason", matching.FieldFinal)
	}
	eval.Assessment = final.Get("reason").String()
	eval.Reasons[matching.FieldFinal] = eval.Assessment

	final.Get("questions").ForEach(func(_, question gjson.Result) bool {
		if text := strings.TrimSpace(question.String()); question.Type == gjson.String && text != "" {
			eval.Questions = append(eval.Questions, text)
		}
		return true
	})

	eval.Score = matching.Aggregate(a.fields, eval.Fields, 1)
	return eval, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
