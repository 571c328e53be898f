package services

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// RankQuery filters a ranking. MinScore is a fraction in [0,1].
type RankQuery struct {
	Status   string
	MinScore float64
	Force    bool
}

type rawRankQuery struct {
	Status   string  `mapstructure:"status"`
	MinScore float64 `mapstructure:"min_score" validate:"gte=0,lte=100"`
	Force    bool    `mapstructure:"force_recalculate"`
}

// ParseRankQuery reads status, min_score (percent) and force_recalculate from query parameters.
func ParseRankQuery(values url.Values) (RankQuery, error) {
	input := make(map[string]interface{}, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			input[key] = vals[0]
		}
	}

	var raw rawRankQuery
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return RankQuery{}, err
	}

	if err = decoder.Decode(input); err != nil {
		return RankQuery{}, errors.Wrap(err, "invalid rank query")
	}

	if err = validator.New().Struct(raw); err != nil {
		return RankQuery{}, errors.Wrap(err, "invalid rank query")
	}

	return RankQuery{
		Status:   raw.Status,
		MinScore: raw.MinScore / 100,
		Force:    raw.Force,
	}, nil
}
