// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when absent.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	cfg.Scoring.CategoryMaxima = normalizeCategoryKeys(cfg.Scoring.CategoryMaxima)
	cfg.Scoring.SemanticWeights = normalizeCategoryKeys(cfg.Scoring.SemanticWeights)

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "assessment-workers"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = "localhost:26500"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = ":9090"
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "local"
	}
	if cfg.Embedding.ModelVersion == "" {
		cfg.Embedding.ModelVersion = "local-hash-v1"
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = 384
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 4096
	}

	applyScoringDefaults(&cfg.Scoring)

	if cfg.Workers == nil {
		cfg.Workers = map[string]WorkerConfig{}
	}
	for task, wc := range cfg.Workers {
		if wc.MaxJobsActive == 0 {
			wc.MaxJobsActive = 5
		}
		if wc.Timeout == 0 {
			wc.Timeout = 30000
		}
		if wc.Parallelism == 0 {
			wc.Parallelism = 4
		}
		cfg.Workers[task] = wc
	}
}

// applyScoringDefaults fills the official scoring sheet values. Defaults are
// only applied to completely unset sections; a partially specified section
// must be valid on its own and fails validation otherwise.
func applyScoringDefaults(s *ScoringConfig) {
	if s.NominalMax == 0 {
		s.NominalMax = 100
	}
	if s.CategoryMaxima == nil {
		s.CategoryMaxima = map[string]float64{
			"education":   30,
			"experience":  5,
			"training":    5,
			"eligibility": 10,
			"potential":   10,
			"performance": 40,
		}
	}
	if s.SemanticWeights == nil {
		s.SemanticWeights = map[string]float64{
			"education":  0.35,
			"experience": 0.45,
			"training":   0.15,
		}
		if s.OverallFitWeight == 0 {
			s.OverallFitWeight = 0.05
		}
	}
	if s.RelevanceThreshold == 0 {
		s.RelevanceThreshold = 0.3
	}
	if s.EnhancementFactor == 0 {
		s.EnhancementFactor = 10
	}
	if s.MaterialityThreshold == 0 {
		s.MaterialityThreshold = 5
	}
	if s.WeightTolerance == 0 {
		s.WeightTolerance = 0.001
	}
}

// DefaultScoring returns the validated default scoring configuration. Used
// by tests and by callers that construct an engine without a config file.
func DefaultScoring() ScoringConfig {
	var s ScoringConfig
	applyScoringDefaults(&s)
	return s
}
