// internal/assessment/engine.go
package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assessment-workers/internal/common/config"
	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/common/observability"
	"assessment-workers/internal/embedding"
	"assessment-workers/internal/models"
)

// Engine is the hybrid assessment engine. Construct one per process with a
// validated scoring configuration and a shared embedding store; Assess is
// safe for concurrent use.
type Engine struct {
	scoring config.ScoringConfig
	rules   *RuleBasedScorer
	store   *embedding.Store
	logger  logger.Logger
	obs     *observability.Observability
}

// WithObservability attaches an OpenTelemetry recorder. Optional; the
// Prometheus counters work without it.
func (e *Engine) WithObservability(obs *observability.Observability) *Engine {
	e.obs = obs
	return e
}

// Options selects the aggregation method and optionally overrides the
// semantic category weights for a single run.
type Options struct {
	// Method defaults to hybrid.
	Method models.Method

	// Weights overrides the configured semantic weights. Must sum to 1.0
	// together with the configured overall-fit weight.
	Weights models.ScoringWeights
}

func NewEngine(scoring config.ScoringConfig, store *embedding.Store, log logger.Logger) (*Engine, error) {
	rules, err := NewRuleBasedScorer(scoring)
	if err != nil {
		return nil, err
	}
	return &Engine{
		scoring: scoring,
		rules:   rules,
		store:   store,
		logger:  log.WithFields(map[string]interface{}{"component": "assessment-engine"}),
	}, nil
}

// Assess scores one candidate against one job and returns a new immutable
// result. Rule-based scoring is always attempted; a fully failed semantic
// path degrades a hybrid run to its rule-based subtotal with the
// degradation flag set rather than failing the assessment.
func (e *Engine) Assess(ctx context.Context, candidate *models.CandidateProfile, job *models.JobRequirement, opts Options) (*models.AssessmentResult, error) {
	start := time.Now()

	if candidate == nil || job == nil {
		return nil, errors.NewAssessmentError("candidate and job are required", nil)
	}

	method := opts.Method
	if method == "" {
		method = models.MethodHybrid
	}
	switch method {
	case models.MethodTraditionalOnly, models.MethodSemanticOnly, models.MethodHybrid:
	default:
		return nil, errors.NewAssessmentError(fmt.Sprintf("unknown method %q", method), nil)
	}

	weights, err := e.resolveWeights(opts.Weights, job.WeightOverrides)
	if err != nil {
		return nil, err
	}

	ruleComponents := e.rules.Score(candidate, job)
	ruleSubtotal := Subtotal(ruleComponents)

	result := &models.AssessmentResult{
		ID:           uuid.NewString(),
		CandidateID:  candidate.ID,
		JobID:        job.ID,
		Method:       method,
		Components:   ruleComponents,
		RuleSubtotal: ruleSubtotal,
		AssessedAt:   time.Now().UTC(),
	}

	if method == models.MethodTraditionalOnly {
		result.Total = clamp(ruleSubtotal, 0, e.scoring.NominalMax)
		e.finish(ctx, result, start)
		return result, nil
	}

	candidateBlocks := NormalizeCandidate(candidate)
	jobBlocks := NormalizeJob(job)

	signals := scoreSemantic(ctx, e.store, candidateBlocks, jobBlocks, e.scoring.RelevanceThreshold, e.logger)
	semanticComposite := composite(signals, weights, e.scoring.OverallFitWeight)
	result.SemanticSubtotal = semanticComposite * e.scoring.NominalMax
	result.Components = append(result.Components, semanticComponents(signals, weights, e.scoring.NominalMax)...)

	if signals.allFailed() {
		// Semantic path entirely unavailable: fall back to the rule-based
		// subtotal. The flag lets callers tell this apart from a genuine
		// semantic zero.
		result.SemanticDegraded = true
		result.DegradationReason = "embedding generation failed for all categories"
		result.SemanticSubtotal = 0
		result.Total = clamp(ruleSubtotal, 0, e.scoring.NominalMax)
		metrics.AssessmentsDegraded.Inc()
		e.logger.Warn("semantic path degraded to rule-based scoring", map[string]interface{}{
			"candidateId":      candidate.ID,
			"jobId":            job.ID,
			"overallFitFailed": signals.overallFailed,
		})
		e.finish(ctx, result, start)
		return result, nil
	}

	switch method {
	case models.MethodSemanticOnly:
		result.Total = clamp(result.SemanticSubtotal, 0, e.scoring.NominalMax)
	case models.MethodHybrid:
		// Bounded additive bonus: semantic signal can only add points on
		// top of the rule subtotal, never subtract, and the total never
		// exceeds the nominal maximum.
		bonus := semanticComposite * e.scoring.EnhancementFactor
		result.Total = clamp(ruleSubtotal+bonus, ruleSubtotal, e.scoring.NominalMax)
	}

	e.finish(ctx, result, start)
	return result, nil
}

// Compare diffs two results for the same candidate and job computed under
// different methods. Pure function, exported at package level as the second
// engine entry point.
func (e *Engine) Compare(a, b *models.AssessmentResult) (*models.ComparisonReport, error) {
	return Compare(a, b, e.scoring.MaterialityThreshold)
}

func (e *Engine) resolveWeights(runWeights, jobWeights models.ScoringWeights) (models.ScoringWeights, error) {
	weights := e.scoring.SemanticScoringWeights()
	override := runWeights
	if override == nil {
		override = jobWeights
	}
	if override == nil {
		return weights, nil
	}

	total := override.Sum() + e.scoring.OverallFitWeight
	if total < 1.0-e.scoring.WeightTolerance || total > 1.0+e.scoring.WeightTolerance {
		return nil, errors.NewConfigurationError(fmt.Sprintf(
			"override weights (incl. overall_fit_weight %.2f) sum to %.4f, expected 1.0",
			e.scoring.OverallFitWeight, total))
	}
	return override, nil
}

func (e *Engine) finish(ctx context.Context, result *models.AssessmentResult, start time.Time) {
	result.QualificationLevel = classifyQualification(result.Total, e.scoring.NominalMax)

	metrics.AssessmentsTotal.WithLabelValues(string(result.Method)).Inc()
	metrics.AssessmentDuration.WithLabelValues(string(result.Method)).Observe(time.Since(start).Seconds())
	if e.obs != nil {
		e.obs.RecordAssessment(ctx, string(result.Method), result.SemanticDegraded)
		e.obs.RecordAssessmentDuration(ctx, time.Since(start), string(result.Method))
	}

	e.logger.Info("assessment completed", map[string]interface{}{
		"candidateId":  result.CandidateID,
		"jobId":        result.JobID,
		"method":       result.Method,
		"total":        result.Total,
		"ruleSubtotal": result.RuleSubtotal,
		"degraded":     result.SemanticDegraded,
		"level":        result.QualificationLevel,
		"durationMs":   time.Since(start).Milliseconds(),
	})
}

// semanticComponents renders thresholded similarities as component scores
// scaled by weight so the breakdown explains where the bonus came from.
func semanticComponents(signals semanticSignals, weights models.ScoringWeights, nominalMax float64) []models.ComponentScore {
	out := make([]models.ComponentScore, 0, len(models.SemanticCategories))
	for _, cat := range models.SemanticCategories {
		w := weights[cat]
		sim := signals.perCategory[cat]
		rationale := fmt.Sprintf("similarity %.3f, weight %.2f", sim, w)
		for _, failed := range signals.failed {
			if failed == cat {
				rationale = "semantic signal unavailable"
				break
			}
		}
		out = append(out, models.ComponentScore{
			Category:  cat,
			Value:     sim * w * nominalMax,
			Max:       w * nominalMax,
			Source:    models.SourceSemantic,
			Rationale: rationale,
		})
	}
	return out
}

func classifyQualification(score, nominalMax float64) string {
	pct := score / nominalMax * 100
	switch {
	case pct >= 81:
		return "excellent"
	case pct >= 61:
		return "high"
	case pct >= 41:
		return "medium"
	default:
		return "low"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
