// internal/workers/assessment/assess-candidate/handler.go
package assesscandidate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"assessment-workers/internal/assessment"
	apperrors "assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/common/validation"
	"assessment-workers/internal/models"
)

const (
	TaskType = "assess-candidate"
)

type Handler struct {
	config *Config
	engine *assessment.Engine
	logger logger.Logger
}

func NewHandler(config *Config, engine *assessment.Engine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(apperrors.ErrCodeParseFailed), fmt.Sprintf("parse input: %v", err))
		return
	}

	if err := validation.ValidateCandidate(input.Candidate); err != nil {
		h.failJob(client, job, string(apperrors.ErrCodeParseFailed), fmt.Sprintf("candidate: %v", err))
		return
	}
	if err := validation.ValidateJob(input.Job); err != nil {
		h.failJob(client, job, string(apperrors.ErrCodeParseFailed), fmt.Sprintf("job: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := string(apperrors.ErrCodeAssessmentFailed)
		if apperrors.IsConfigurationError(err) {
			errorCode = string(apperrors.ErrCodeConfigInvalid)
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	opts := assessment.Options{
		Method:  models.Method(input.Method),
		Weights: toScoringWeights(input.Weights),
	}

	result, err := h.engine.Assess(ctx, &input.Candidate, &input.Job, opts)
	if err != nil {
		return nil, err
	}

	return &Output{
		Result:             result,
		TotalScore:         result.Total,
		QualificationLevel: result.QualificationLevel,
		SemanticDegraded:   result.SemanticDegraded,
	}, nil
}

func toScoringWeights(raw map[string]float64) models.ScoringWeights {
	if raw == nil {
		return nil
	}
	w := make(models.ScoringWeights, len(raw))
	for k, v := range raw {
		w[models.Category(k)] = v
	}
	return w
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Execute runs the assessment outside the job lifecycle. Used by tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
