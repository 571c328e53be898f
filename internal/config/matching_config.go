package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type MatchingConfig struct {
	// LocationSynonyms maps regional aliases to the canonical city name.
	LocationSynonyms map[string]string  `mapstructure:"location_synonyms"`
	Weights          map[string]float64 `mapstructure:"weights"`
}

type RankingConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

func (config RankingConfig) validate() error {
	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", config.Concurrency)
	}
	return nil
}

func (config RankingConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("ranking.concurrency", "RANKING_CONCURRENCY")
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

func (config MetricsConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("metrics.address", "METRICS_ADDRESS")
}

type CleanerConfig struct {
	Schedule string `mapstructure:"schedule"`
}

func (config CleanerConfig) validate() error {
	if strings.TrimSpace(config.Schedule) == "" {
		return fmt.Errorf("missing variable: schedule")
	}
	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", config.Schedule, err)
	}
	return nil
}
