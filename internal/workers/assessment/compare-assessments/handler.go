// internal/workers/assessment/compare-assessments/handler.go
package compareassessments

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
	TaskType = "compare-assessments"
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := string(apperrors.ErrCodeComparisonFailed)
		if apperrors.IsAssessmentError(err) {
			errorCode = string(apperrors.ErrCodeAssessmentFailed)
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	a, b := input.ResultA, input.ResultB

	if a == nil || b == nil {
		// No precomputed results: score the pair under both methods.
		if input.Candidate == nil || input.Job == nil {
			return nil, apperrors.NewComparisonError(
				"either two results or a candidate and job are required")
		}
		if err := validation.ValidateCandidate(input.Candidate); err != nil {
			return nil, apperrors.NewComparisonError(fmt.Sprintf("candidate: %v", err))
		}
		if err := validation.ValidateJob(input.Job); err != nil {
			return nil, apperrors.NewComparisonError(fmt.Sprintf("job: %v", err))
		}

		var err error
		a, err = h.engine.Assess(ctx, input.Candidate, input.Job,
			assessment.Options{Method: models.MethodTraditionalOnly})
		if err != nil {
			return nil, err
		}
		b, err = h.engine.Assess(ctx, input.Candidate, input.Job,
			assessment.Options{Method: models.MethodHybrid})
		if err != nil {
			return nil, err
		}
	}

	report, err := h.engine.Compare(a, b)
	if err != nil {
		return nil, err
	}

	return &Output{
		Report:             report,
		TraditionalTotal:   a.Total,
		HybridTotal:        b.Total,
		DifferenceCategory: report.DifferenceCategory,
	}, nil
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

// Execute runs the comparison outside the job lifecycle. Used by tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
