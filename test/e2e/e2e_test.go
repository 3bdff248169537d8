// test/e2e/e2e_test.go

// End-to-end tests covering the full assessment pipeline: normalization,
// embedding with both cache tiers, rule-based and semantic scoring, and the
// worker execution paths, without a running Zeebe broker.
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-workers/internal/assessment"
	"assessment-workers/internal/common/config"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/embedding"
	"assessment-workers/internal/models"
	"assessment-workers/pkg/registry"

	ac "assessment-workers/internal/workers/assessment/assess-candidate"
	ba "assessment-workers/internal/workers/assessment/batch-assess-candidates"
	ca "assessment-workers/internal/workers/assessment/compare-assessments"
)

// ==========================
// Fixtures
// ==========================

func float64Ptr(v float64) *float64 { return &v }

func newEngine(t *testing.T, redisAddr string) *assessment.Engine {
	t.Helper()

	opts := embedding.StoreOptions{CacheSize: 256}
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		t.Cleanup(func() { client.Close() })
		opts.Redis = client
		opts.RedisTTL = time.Minute
	}

	store, err := embedding.NewStore(embedding.NewLocalEncoder(128), opts, logger.NewTestLogger(t))
	require.NoError(t, err)

	engine, err := assessment.NewEngine(config.DefaultScoring(), store, logger.NewTestLogger(t))
	require.NoError(t, err)
	return engine
}

func nurseCandidate() models.CandidateProfile {
	return models.CandidateProfile{
		ID:   "cand-nurse-1",
		Name: "E2E Nurse Candidate",
		Kind: models.ProfileKindStructured,
		Education: []models.EducationEntry{
			{Level: "bachelor", Degree: "BS Nursing", School: "Provincial State University",
				Honors: "Cum Laude", YearGraduated: 2019},
		},
		Experience: []models.ExperienceEntry{
			{Position: "Staff Nurse", Company: "Provincial Hospital", Years: 3,
				Description: "patient care in the medical ward"},
			{Position: "Nursing Aide", Company: "Rural Health Unit", Years: 1,
				Description: "community health and immunization support"},
		},
		Training: []models.TrainingEntry{
			{Title: "Basic Life Support", Type: "Technical", Year: 2025, Hours: 8},
			{Title: "Intravenous Therapy Training", Type: "Technical", Year: 2024, Hours: 24},
		},
		Eligibility: []models.EligibilityEntry{
			{Name: "Registered Nurse", Rating: 84.5},
		},
		ManualScores: &models.ManualScores{Potential: float64Ptr(8), Performance: float64Ptr(34)},
	}
}

func nurseJob() models.JobRequirement {
	return models.JobRequirement{
		ID:            "job-nurse-2",
		Title:         "Nurse II",
		Department:    "Provincial Health Office",
		Kind:          models.JobKindStructured,
		Education:     "Bachelor of Science in Nursing",
		Experience:    "One year of relevant nursing experience",
		Training:      "Four hours of relevant training",
		Description:   "Provides nursing care and supervises nursing aides in a provincial hospital",
		RequiredLevel: "bachelor",
		RequiredYears: 1,
		Keywords:      []string{"nurse", "nursing", "patient", "health"},
	}
}

// ==========================
// Pipeline
// ==========================

func TestPipeline_HybridAssessment(t *testing.T) {
	engine := newEngine(t, "")
	handler := ac.NewHandler(ac.LoadConfig(), engine, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &ac.Input{
		Candidate: nurseCandidate(),
		Job:       nurseJob(),
	})
	require.NoError(t, err)

	result := output.Result
	require.NotNil(t, result)
	assert.Equal(t, "cand-nurse-1", result.CandidateID)
	assert.Equal(t, "job-nurse-2", result.JobID)
	assert.Equal(t, models.MethodHybrid, result.Method)

	// A well-matched candidate scores high across the board.
	assert.Greater(t, result.Total, 60.0)
	assert.LessOrEqual(t, result.Total, 100.0)
	assert.GreaterOrEqual(t, result.Total, result.RuleSubtotal)
	assert.False(t, result.SemanticDegraded)
	assert.Contains(t, []string{"excellent", "high"}, result.QualificationLevel)

	// Rule components cover all six categories with rationales.
	for _, cat := range []models.Category{
		models.CategoryEducation, models.CategoryExperience, models.CategoryTraining,
		models.CategoryEligibility, models.CategoryPotential, models.CategoryPerformance,
	} {
		c := result.Component(cat)
		require.NotNil(t, c, "component %s", cat)
		assert.NotEmpty(t, c.Rationale, "component %s", cat)
	}
}

func TestPipeline_RedisCacheTier(t *testing.T) {
	mr := miniredis.RunT(t)
	engine := newEngine(t, mr.Addr())
	ctx := context.Background()

	first, err := engine.Assess(ctx, ptrOf(nurseCandidate()), ptrOf(nurseJob()), assessment.Options{})
	require.NoError(t, err)

	// The shared tier now holds the embeddings; a second run must agree.
	second, err := engine.Assess(ctx, ptrOf(nurseCandidate()), ptrOf(nurseJob()), assessment.Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)

	assert.NotEmpty(t, mr.Keys(), "embeddings are written to the shared tier")
}

func ptrOf[T any](v T) *T { return &v }

func TestPipeline_BatchThenCompare(t *testing.T) {
	engine := newEngine(t, "")
	ctx := context.Background()

	batchHandler := ba.NewHandler(ba.LoadConfig(), engine, logger.NewTestLogger(t))

	weak := nurseCandidate()
	weak.ID = "cand-nurse-2"
	weak.Experience = nil
	weak.Eligibility = nil
	weak.ManualScores = nil

	batchOut, err := batchHandler.Execute(ctx, &ba.Input{
		Candidates: []models.CandidateProfile{nurseCandidate(), weak},
		Job:        nurseJob(),
	})
	require.NoError(t, err)
	require.Len(t, batchOut.Results, 2)
	assert.Equal(t, 2, batchOut.Statistics.Assessed)
	assert.Greater(t, batchOut.Results[0].TotalScore, batchOut.Results[1].TotalScore,
		"the stronger candidate outranks the weaker one")

	compareHandler := ca.NewHandler(ca.LoadConfig(), engine, logger.NewTestLogger(t))
	candidate, job := nurseCandidate(), nurseJob()
	compareOut, err := compareHandler.Execute(ctx, &ca.Input{
		Candidate: &candidate,
		Job:       &job,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, compareOut.HybridTotal, compareOut.TraditionalTotal)
	assert.NotEmpty(t, compareOut.DifferenceCategory)
}

func TestPipeline_LegacyProfileAgainstStructuredJob(t *testing.T) {
	engine := newEngine(t, "")

	legacy := &models.CandidateProfile{
		ID:   "cand-legacy-1",
		Kind: models.ProfileKindLegacy,
		RawText: "Registered nurse with three years of hospital patient care, " +
			"BS Nursing graduate, trained in basic life support",
	}

	job := nurseJob()
	result, err := engine.Assess(context.Background(), legacy, &job, assessment.Options{})
	require.NoError(t, err)

	// Legacy records have no structured entries for the rules to score, but
	// the semantic path still recognizes the overlap.
	assert.Greater(t, result.SemanticSubtotal, 0.0)
	assert.False(t, result.SemanticDegraded)
}

func TestPipeline_RegistryMatchesWorkers(t *testing.T) {
	reg := registry.Default()

	for _, taskType := range []string{ac.TaskType, ba.TaskType, ca.TaskType} {
		activity := reg.Find(taskType)
		require.NotNil(t, activity, "task type %s must be registered", taskType)
		assert.NotEmpty(t, activity.InputSchema)
		assert.NotEmpty(t, activity.ErrorCodes)
	}
	assert.Len(t, reg.TaskTypes(), 3)
}
