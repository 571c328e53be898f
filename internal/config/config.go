package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	DB       DBConfig       `mapstructure:"db"`
	Scorer   ScorerConfig   `mapstructure:"scorer"`
	Matching MatchingConfig `mapstructure:"matching"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Cleaner  CleanerConfig  `mapstructure:"cleaner"`
}

var configFile = "./configs/config.yaml"

// Get loads the configuration from CONFIG_PATH or the default location and exits on failure.
func Get() *Config {

	file := configFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		file = value
	}

	config, err := Load(file)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func Load(file string) (*Config, error) {

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("failed to load .env file: %v", err)
	}

	viper.SetConfigFile(file)
	viper.AutomaticEnv()
	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("logger.log_level", string(LevelInfo))
	viper.SetDefault("logger.app_name", "hr-matcher")
	viper.SetDefault("logger.output_file", "./logs/errors.log")
	viper.SetDefault("scorer.external_enabled", true)
	viper.SetDefault("scorer.ai_model", "gemini-1.5-flash")
	viper.SetDefault("scorer.external_timeout", "30s")
	viper.SetDefault("scorer.max_retries", 3)
	viper.SetDefault("ranking.concurrency", 4)
	viper.SetDefault("metrics.address", ":8080")
	viper.SetDefault("cleaner.schedule", "0 3 * * *")
}

func bindEnvironmentVariables() error {
	var errs []error

	sections := map[string]interface{ bindEnvironmentVariables() error }{
		"LoggerConfig":  LoggerConfig{},
		"DBConfig":      DBConfig{},
		"ScorerConfig":  ScorerConfig{},
		"RankingConfig": RankingConfig{},
		"MetricsConfig": MetricsConfig{},
	}

	for name, section := range sections {
		if err := section.bindEnvironmentVariables(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Scorer.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ScorerConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Ranking.validate(); err != nil {
		errs = append(errs, fmt.Errorf("RankingConfig: %w", err))
	}

	if err := config.Cleaner.validate(); err != nil {
		errs = append(errs, fmt.Errorf("CleanerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
