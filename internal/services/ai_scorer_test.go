package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/maxaizer/hr-matcher/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testFields() matching.Fields {
	return matching.DefaultFields(matching.DefaultLocationSynonyms())
}

// aiResponse builds a reply scoring every declared field with the given default,
// overridden per key by scores.
func aiResponse(defaultScore float64, scores map[string]float64) string {
	reply := map[string]any{}
	for _, key := range testFields().Keys() {
		score := defaultScore
		if s, ok := scores[key]; ok {
			score = s
		}
		reply[key] = map[string]any{"score": score, "reason": "because " + key}
	}
	reply[matching.FieldFinal] = map[string]any{
		"score":     0,
		"reason":    "solid candidate",
		"questions": []string{"Tell about your last project", " "},
	}
	data, _ := json.Marshal(reply)
	return string(data)
}

func Test_AIScorer_ParsesScoresOnTenPointScale(t *testing.T) {
	scorer := NewAIScorer(&mockAiClient{}, testFields())

	eval, err := scorer.parse(aiResponse(10, map[string]float64{matching.FieldAge: 5}))
	require.NoError(t, err)

	assert.Equal(t, models.Score(0.5), eval.Fields[matching.FieldAge])
	assert.Equal(t, models.Score(1), eval.Fields[matching.FieldSkills])
	assert.Equal(t, "because skills", eval.Reasons[matching.FieldSkills])
	assert.Equal(t, "solid candidate", eval.Assessment)
	assert.Equal(t, []string{"Tell about your last project"}, eval.Questions)
	assert.NotContains(t, eval.Fields, matching.FieldFinal)

	// every weight but age (0.3) scores 1, age scores 0.5
	totalWeight := 0.0
	for _, spec := range testFields() {
		totalWeight += spec.Weight
	}
	assert.InDelta(t, (totalWeight-0.3*0.5)/totalWeight, eval.Score, 1e-9)
}

func Test_AIScorer_NotComparableIsUnknown(t *testing.T) {
	scorer := NewAIScorer(&mockAiClient{}, testFields())

	eval, err := scorer.parse(aiResponse(-1, map[string]float64{matching.FieldSkills: 8}))
	require.NoError(t, err)

	assert.Equal(t, models.Unknown(), eval.Fields[matching.FieldAge])
	assert.InDelta(t, 0.8, eval.Score, 1e-9)
}

func Test_AIScorer_AllNotComparable_NeutralScore(t *testing.T) {
	scorer := NewAIScorer(&mockAiClient{}, testFields())

	eval, err := scorer.parse(aiResponse(-1, nil))
	require.NoError(t, err)
	assert.Equal(t, matching.NeutralScore, eval.Score)
}

func Test_AIScorer_StripsMarkdownFences(t *testing.T) {
	scorer := NewAIScorer(&mockAiClient{}, testFields())

	eval, err := scorer.parse("```json\n" + aiResponse(7, nil) + "\n```")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, eval.Score, 1e-9)
}

func Test_AIScorer_RejectsMalformedResponses(t *testing.T) {
	scorer := NewAIScorer(&mockAiClient{}, testFields())

	withoutSkills := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(aiResponse(5, nil)), &withoutSkills))
	delete(withoutSkills, matching.FieldSkills)
	missingField, _ := json.Marshal(withoutSkills)

	withoutFinal := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(aiResponse(5, nil)), &withoutFinal))
	delete(withoutFinal, matching.FieldFinal)
	missingFinal, _ := json.Marshal(withoutFinal)

	cases := map[string]string{
		"not json":      "the candidate looks fine",
		"array":         "[1, 2, 3]",
		"missing field": string(missingField),
		"missing final": string(missingFinal),
		"out of range":  aiResponse(5, map[string]float64{matching.FieldAge: 11}),
		"negative":      aiResponse(5, map[string]float64{matching.FieldAge: -2}),
		"string score":  strings.Replace(aiResponse(5, nil), `"score":5`, `"score":"5"`, 1),
	}

	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scorer.parse(response)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func Test_AIScorer_RequestCarriesBothSidesWithNulls(t *testing.T) {
	client := &mockAiClient{}
	scorer := NewAIScorer(client, testFields())

	extracted := time.Now()
	candidate := &models.Candidate{ID: 1, Skills: []string{"python"}, Location: "спб", ExtractedAt: &extracted}
	vacancy := &models.Vacancy{ID: 2, Title: "Backend developer", Skills: []string{"python", "sql"}}

	client.On("GenerateResponse", mock.Anything, mock.MatchedBy(func(request string) bool {
		return strings.Contains(request, `"candidate"`) &&
			strings.Contains(request, `"vacancy"`) &&
			strings.Contains(request, `"age": null`) &&
			strings.Contains(request, `"Backend developer"`) &&
			!strings.Contains(request, "{{payload}}")
	})).Return(aiResponse(6, nil), nil).Once()

	eval, err := scorer.Evaluate(context.Background(), candidate, vacancy)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, eval.Score, 1e-9)
	client.AssertExpectations(t)
}

func Test_AIScorer_TransportErrorIsReturned(t *testing.T) {
	client := &mockAiClient{}
	client.On("GenerateResponse", mock.Anything, mock.Anything).Return("", errors.New("Error 401"))

	_, err := NewAIScorer(client, testFields()).Evaluate(context.Background(), &models.Candidate{}, &models.Vacancy{})
	assert.EqualError(t, err, "Error 401")
}

func Test_ExtractJSON(t *testing.T) {
	for _, raw := range []string{"{}", "```json\n{}\n```", "```\n{}```", "  {}  "} {
		assert.Equal(t, "{}", extractJSON(raw), fmt.Sprintf("input %q", raw))
	}
}
