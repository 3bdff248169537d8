// internal/common/config/config.go
package config

import (
	"fmt"
	"math"
	"strings"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/models"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Redis     RedisConfig             `mapstructure:"redis"`
	Embedding EmbeddingConfig         `mapstructure:"embedding"`
	Scoring   ScoringConfig           `mapstructure:"scoring"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Metrics   MetricsConfig           `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// Enabled turns on the shared Redis tier of the embedding cache.
	Enabled bool `mapstructure:"enabled"`
}

// EmbeddingConfig selects and sizes the embedding pipeline.
type EmbeddingConfig struct {
	// Provider is "local" (deterministic hashing encoder) or "gemini".
	Provider string `mapstructure:"provider"`

	// ModelVersion participates in every cache key; bumping it invalidates
	// all cached vectors.
	ModelVersion string `mapstructure:"model_version"`

	Dimension int    `mapstructure:"dimension"`
	APIKey    string `mapstructure:"api_key"`

	// CacheSize bounds the in-process LRU (entries, not bytes).
	CacheSize int `mapstructure:"cache_size"`

	// CacheTTL applies to the Redis tier only; milliseconds, 0 = no expiry.
	CacheTTL int `mapstructure:"cache_ttl"`
}

// ScoringConfig carries every tunable of the assessment engine. Validation
// is fail-fast: a config that violates the sum invariants never produces an
// engine.
type ScoringConfig struct {
	NominalMax     float64            `mapstructure:"nominal_max"`
	CategoryMaxima map[string]float64 `mapstructure:"category_maxima"`

	SemanticWeights  map[string]float64 `mapstructure:"semantic_weights"`
	OverallFitWeight float64            `mapstructure:"overall_fit_weight"`

	RelevanceThreshold float64 `mapstructure:"relevance_threshold"`

	// EnhancementFactor is the maximum number of points the semantic
	// composite can add on top of the rule-based subtotal in hybrid mode.
	EnhancementFactor float64 `mapstructure:"enhancement_factor"`

	// MaterialityThreshold is the minimum per-category delta (points) a
	// comparison reports as an advantage.
	MaterialityThreshold float64 `mapstructure:"materiality_threshold"`

	WeightTolerance float64 `mapstructure:"weight_tolerance"`
}

const maxEnhancementFactor = 15.0

// SemanticScoringWeights returns the configured semantic weights as typed
// ScoringWeights (overall-fit bonus included under its own key).
func (s ScoringConfig) SemanticScoringWeights() models.ScoringWeights {
	w := make(models.ScoringWeights, len(s.SemanticWeights)+1)
	for k, v := range s.SemanticWeights {
		w[models.Category(k)] = v
	}
	return w
}

// Validate enforces the scoring invariants. Returns a ConfigurationError on
// the first violation; nothing is corrected silently.
func (s ScoringConfig) Validate() error {
	if s.NominalMax <= 0 {
		return errors.NewConfigurationError("nominal_max must be positive")
	}

	var maximaSum float64
	for cat, max := range s.CategoryMaxima {
		if max < 0 {
			return errors.NewConfigurationError(fmt.Sprintf("category %q has negative maximum %.2f", cat, max))
		}
		maximaSum += max
	}
	if math.Abs(maximaSum-s.NominalMax) > s.WeightTolerance {
		return errors.NewConfigurationError(fmt.Sprintf(
			"category maxima sum to %.4f, expected nominal maximum %.2f", maximaSum, s.NominalMax))
	}

	var weightSum float64
	for cat, w := range s.SemanticWeights {
		if w < 0 {
			return errors.NewConfigurationError(fmt.Sprintf("semantic weight %q is negative", cat))
		}
		weightSum += w
	}
	weightSum += s.OverallFitWeight
	if math.Abs(weightSum-1.0) > s.WeightTolerance {
		return errors.NewConfigurationError(fmt.Sprintf(
			"semantic weights (incl. overall_fit_weight) sum to %.4f, expected 1.0", weightSum))
	}

	if s.RelevanceThreshold < 0 || s.RelevanceThreshold > 1 {
		return errors.NewConfigurationError(fmt.Sprintf(
			"relevance_threshold %.2f outside [0,1]", s.RelevanceThreshold))
	}
	if s.EnhancementFactor < 0 || s.EnhancementFactor > maxEnhancementFactor {
		return errors.NewConfigurationError(fmt.Sprintf(
			"enhancement_factor %.2f outside [0,%.0f]", s.EnhancementFactor, maxEnhancementFactor))
	}
	return nil
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds

	// Parallelism bounds the worker pool for batch assessment.
	Parallelism int `mapstructure:"parallelism"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// normalizeCategoryKeys lower-cases map keys so YAML and env variants agree.
func normalizeCategoryKeys(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
