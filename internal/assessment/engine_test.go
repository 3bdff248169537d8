package assessment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-workers/internal/common/config"
	apperrors "assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/embedding"
	"assessment-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type brokenEncoder struct{}

func (brokenEncoder) Encode(context.Context, string) (embedding.Vector, error) {
	return nil, errors.New("model endpoint unreachable")
}
func (brokenEncoder) ModelVersion() string { return "broken-v1" }
func (brokenEncoder) Dimension() int       { return 64 }

// categoryFailingEncoder errors on single-section texts but still serves the
// joined whole-profile comparison.
type categoryFailingEncoder struct {
	inner *embedding.LocalEncoder
}

func (e categoryFailingEncoder) Encode(ctx context.Context, text string) (embedding.Vector, error) {
	if !strings.Contains(text, " | ") {
		return nil, errors.New("model endpoint unreachable")
	}
	return e.inner.Encode(ctx, text)
}
func (e categoryFailingEncoder) ModelVersion() string { return "partial-v1" }
func (e categoryFailingEncoder) Dimension() int       { return e.inner.Dimension() }

func newTestEngine(t *testing.T, enc embedding.Encoder) *Engine {
	t.Helper()
	if enc == nil {
		enc = embedding.NewLocalEncoder(128)
	}
	store, err := embedding.NewStore(enc, embedding.StoreOptions{CacheSize: 64}, logger.NewTestLogger(t))
	require.NoError(t, err)

	engine, err := NewEngine(config.DefaultScoring(), store, logger.NewTestLogger(t))
	require.NoError(t, err)
	return engine
}

func strongCandidate() *models.CandidateProfile {
	return &models.CandidateProfile{
		ID:   "c-100",
		Name: "Test Candidate",
		Kind: models.ProfileKindStructured,
		Education: []models.EducationEntry{
			{Level: "bachelor", Degree: "BS Public Administration", School: "State University"},
		},
		Experience: []models.ExperienceEntry{
			{Position: "Administrative Officer", Company: "Provincial Office", Years: 6,
				Description: "records management and clerical supervision"},
		},
		Training: []models.TrainingEntry{
			{Title: "Records Management Training", Year: 2025, Hours: 24},
		},
		Eligibility:  []models.EligibilityEntry{{Name: "Career Service Professional", Rating: 86}},
		ManualScores: &models.ManualScores{Potential: ptr(8), Performance: ptr(32)},
	}
}

func legacyCandidate() *models.CandidateProfile {
	return &models.CandidateProfile{
		ID:   "c-200",
		Kind: models.ProfileKindLegacy,
		RawText: "Administrative assistant for six years, handled records and " +
			"correspondence, bachelor of science in office administration",
	}
}

func assessmentJob() *models.JobRequirement {
	return &models.JobRequirement{
		ID:            "j-100",
		Title:         "Administrative Officer II",
		Kind:          models.JobKindStructured,
		Education:     "Bachelor's degree in public or business administration",
		Experience:    "At least four years of administrative experience",
		Training:      "Records management or clerical training",
		Description:   "Supervises records, correspondence and clerical staff",
		RequiredLevel: "bachelor",
		RequiredYears: 4,
		Keywords:      []string{"administrative", "records", "clerical"},
	}
}

// ==========================
// Construction
// ==========================

func TestNewEngine_RejectsInvalidScoring(t *testing.T) {
	store, err := embedding.NewStore(embedding.NewLocalEncoder(64), embedding.StoreOptions{}, logger.NewNoOpLogger())
	require.NoError(t, err)

	cfg := config.DefaultScoring()
	cfg.SemanticWeights["education"] = 0.9 // weights no longer sum to 1.0

	_, err = NewEngine(cfg, store, logger.NewNoOpLogger())
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigurationError(err))
}

// ==========================
// Methods
// ==========================

func TestEngine_Assess_TraditionalOnly(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(context.Background(), strongCandidate(), assessmentJob(),
		Options{Method: models.MethodTraditionalOnly})
	require.NoError(t, err)

	assert.Equal(t, models.MethodTraditionalOnly, result.Method)
	assert.InDelta(t, result.RuleSubtotal, result.Total, 1e-9)
	assert.Zero(t, result.SemanticSubtotal)
	assert.Len(t, result.Components, 6, "traditional runs carry rule components only")
	assert.False(t, result.SemanticDegraded)
}

func TestEngine_Assess_Hybrid(t *testing.T) {
	engine := newTestEngine(t, nil)
	ctx := context.Background()

	traditional, err := engine.Assess(ctx, strongCandidate(), assessmentJob(),
		Options{Method: models.MethodTraditionalOnly})
	require.NoError(t, err)

	hybrid, err := engine.Assess(ctx, strongCandidate(), assessmentJob(),
		Options{Method: models.MethodHybrid})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, hybrid.Total, traditional.Total,
		"semantic enhancement never lowers the rule-based total")
	assert.LessOrEqual(t, hybrid.Total, 100.0)
	assert.GreaterOrEqual(t, hybrid.Total, hybrid.RuleSubtotal)
	assert.Len(t, hybrid.Components, 9, "hybrid carries rule and semantic components")
	assert.False(t, hybrid.SemanticDegraded)
}

func TestEngine_Assess_HybridIsDefault(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(context.Background(), strongCandidate(), assessmentJob(), Options{})
	require.NoError(t, err)
	assert.Equal(t, models.MethodHybrid, result.Method)
}

func TestEngine_Assess_SemanticOnly(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(context.Background(), legacyCandidate(), assessmentJob(),
		Options{Method: models.MethodSemanticOnly})
	require.NoError(t, err)

	assert.Equal(t, models.MethodSemanticOnly, result.Method)
	assert.GreaterOrEqual(t, result.Total, 0.0)
	assert.LessOrEqual(t, result.Total, 100.0)
	assert.InDelta(t, result.SemanticSubtotal, result.Total, 1e-9)
}

func TestEngine_Assess_UnknownMethod(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.Assess(context.Background(), strongCandidate(), assessmentJob(),
		Options{Method: "ensemble"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAssessmentError(err))
}

func TestEngine_Assess_NilInputs(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.Assess(context.Background(), nil, assessmentJob(), Options{})
	require.Error(t, err)

	_, err = engine.Assess(context.Background(), strongCandidate(), nil, Options{})
	require.Error(t, err)
}

// ==========================
// Determinism and degradation
// ==========================

func TestEngine_Assess_Repeatable(t *testing.T) {
	engine := newTestEngine(t, nil)
	ctx := context.Background()

	first, err := engine.Assess(ctx, strongCandidate(), assessmentJob(), Options{})
	require.NoError(t, err)
	second, err := engine.Assess(ctx, strongCandidate(), assessmentJob(), Options{})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "every run produces a new result")
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.RuleSubtotal, second.RuleSubtotal)
	assert.Equal(t, first.SemanticSubtotal, second.SemanticSubtotal)
	assert.Equal(t, first.Components, second.Components)
}

func TestEngine_Assess_DegradesWhenSemanticFails(t *testing.T) {
	engine := newTestEngine(t, brokenEncoder{})

	result, err := engine.Assess(context.Background(), legacyCandidate(), assessmentJob(),
		Options{Method: models.MethodHybrid})
	require.NoError(t, err, "full semantic failure degrades, it does not fail the assessment")

	assert.True(t, result.SemanticDegraded)
	assert.NotEmpty(t, result.DegradationReason)
	assert.InDelta(t, result.RuleSubtotal, result.Total, 1e-9)
	assert.Zero(t, result.SemanticSubtotal)
}

func TestEngine_Assess_DegradesWhenAllCategoriesFail(t *testing.T) {
	// A surviving overall-fit comparison alone cannot carry the semantic
	// path when every category comparison lost its signal.
	engine := newTestEngine(t, categoryFailingEncoder{inner: embedding.NewLocalEncoder(128)})

	result, err := engine.Assess(context.Background(), strongCandidate(), assessmentJob(),
		Options{Method: models.MethodHybrid})
	require.NoError(t, err)

	assert.True(t, result.SemanticDegraded)
	assert.InDelta(t, result.RuleSubtotal, result.Total, 1e-9)
	assert.Zero(t, result.SemanticSubtotal)
}

func TestEngine_Assess_EmptyExperienceSection(t *testing.T) {
	engine := newTestEngine(t, nil)

	candidate := strongCandidate()
	candidate.Experience = nil

	result, err := engine.Assess(context.Background(), candidate, assessmentJob(), Options{})
	require.NoError(t, err)

	exp := result.Component(models.CategoryExperience)
	require.NotNil(t, exp)
	assert.Zero(t, exp.Value, "an absent section scores zero, it does not fail")
	assert.False(t, result.SemanticDegraded)
}

// ==========================
// Weights
// ==========================

func TestEngine_Assess_WeightOverride(t *testing.T) {
	engine := newTestEngine(t, nil)
	ctx := context.Background()

	valid := models.ScoringWeights{
		models.CategoryEducation:  0.20,
		models.CategoryExperience: 0.60,
		models.CategoryTraining:   0.15,
		// plus the configured 0.05 overall-fit weight = 1.0
	}
	_, err := engine.Assess(ctx, strongCandidate(), assessmentJob(), Options{Weights: valid})
	require.NoError(t, err)

	invalid := models.ScoringWeights{
		models.CategoryEducation:  0.50,
		models.CategoryExperience: 0.60,
	}
	_, err = engine.Assess(ctx, strongCandidate(), assessmentJob(), Options{Weights: invalid})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigurationError(err))
}

func TestEngine_Assess_JobWeightOverrides(t *testing.T) {
	engine := newTestEngine(t, nil)

	job := assessmentJob()
	job.WeightOverrides = models.ScoringWeights{
		models.CategoryEducation:  0.10,
		models.CategoryExperience: 0.70,
		models.CategoryTraining:   0.15,
	}

	result, err := engine.Assess(context.Background(), strongCandidate(), job, Options{})
	require.NoError(t, err)

	exp := result.Component(models.CategoryExperience)
	require.NotNil(t, exp)
}

// ==========================
// Qualification levels
// ==========================

func TestClassifyQualification(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "excellent"},
		{81, "excellent"},
		{80.9, "high"},
		{61, "high"},
		{60.9, "medium"},
		{41, "medium"},
		{40.9, "low"},
		{0, "low"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyQualification(tt.score, 100), "score %.1f", tt.score)
	}
}

func TestEngine_Assess_SetsQualificationLevel(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Assess(context.Background(), strongCandidate(), assessmentJob(), Options{})
	require.NoError(t, err)
	assert.Contains(t, []string{"excellent", "high", "medium", "low"}, result.QualificationLevel)
}
