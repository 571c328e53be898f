package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ScorerConfig struct {
	ExternalEnabled        bool          `mapstructure:"external_enabled"`
	AIKey                  string        `mapstructure:"ai_key"`
	AIModel                string        `mapstructure:"ai_model"`
	ExternalTimeout        time.Duration `mapstructure:"external_timeout"`
	MaxRetries             int           `mapstructure:"max_retries"`
	AiMaxRequestsPerMinute float32       `mapstructure:"ai_max_requests_per_minute"`
	AiMaxRequestsPerDay    float32       `mapstructure:"ai_max_requests_per_day"`
}

// UseExternal reports whether the external scorer can be built. Without a key the
// local scorer is used alone.
func (config ScorerConfig) UseExternal() bool {
	return config.ExternalEnabled && strings.TrimSpace(config.AIKey) != ""
}

func (config ScorerConfig) validate() error {

	var problems []string

	if config.ExternalTimeout <= 0 {
		problems = append(problems, "external_timeout must be positive")
	}

	if config.MaxRetries < 0 {
		problems = append(problems, "max_retries must not be negative")
	}

	if config.AiMaxRequestsPerMinute < 0 || config.AiMaxRequestsPerDay < 0 {
		problems = append(problems, "ai rate limits must not be negative")
	}

	if config.ExternalEnabled && config.AIModel == "" {
		problems = append(problems, "ai_model")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid variables: %s", strings.Join(problems, ", "))
	}

	return nil
}

func (config ScorerConfig) bindEnvironmentVariables() error {
	var errs []error
	if err := viper.BindEnv("scorer.ai_key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scorer.ai_model", "AI_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scorer.external_enabled", "EXTERNAL_SCORER_ENABLED"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scorer.external_timeout", "EXTERNAL_SCORER_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
