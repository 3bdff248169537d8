// internal/workers/assessment/batch-assess-candidates/handler.go
package batchassess

import (
	"context"
	"encoding/json"
	"errors"
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
	TaskType = "batch-assess-candidates"
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

	if len(input.Candidates) == 0 {
		h.failJob(client, job, string(apperrors.ErrCodeParseFailed), "batch contains no candidates")
		return
	}
	if len(input.Candidates) > h.config.MaxBatchSize {
		h.failJob(client, job, string(apperrors.ErrCodeParseFailed),
			fmt.Sprintf("batch of %d exceeds limit %d", len(input.Candidates), h.config.MaxBatchSize))
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
		h.failJob(client, job, string(apperrors.ErrCodeAssessmentFailed), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{
		Results: make([]ItemResult, len(input.Candidates)),
		Statistics: Statistics{
			Levels: map[string]int{},
		},
	}

	// Malformed candidates fail their own item up front, with the same
	// error code the single-assessment worker throws; everyone else reaches
	// the engine.
	items := make([]assessment.BatchItem, 0, len(input.Candidates))
	indexes := make([]int, 0, len(input.Candidates))
	for i := range input.Candidates {
		item := ItemResult{CandidateID: input.Candidates[i].ID}
		if err := validation.ValidateCandidate(input.Candidates[i]); err != nil {
			item.Error = fmt.Sprintf("candidate: %v", err)
			item.ErrorCode = string(apperrors.ErrCodeParseFailed)
			output.Statistics.Failed++
			output.Results[i] = item
			continue
		}
		output.Results[i] = item
		items = append(items, assessment.BatchItem{
			Candidate: &input.Candidates[i],
			Job:       &input.Job,
		})
		indexes = append(indexes, i)
	}

	opts := assessment.Options{Method: models.Method(input.Method)}
	batch := h.engine.AssessBatch(ctx, items, opts, h.config.Parallelism)

	for j, br := range batch {
		item := &output.Results[indexes[j]]
		if br.Err != nil {
			item.Error = br.Err.Error()
			item.ErrorCode = errorCodeOf(br.Err)
			output.Statistics.Failed++
		} else {
			item.Result = br.Result
			item.TotalScore = br.Result.Total
			item.QualificationLevel = br.Result.QualificationLevel
			accumulate(&output.Statistics, br.Result)
		}
	}

	if output.Statistics.Assessed > 0 {
		output.Statistics.Mean /= float64(output.Statistics.Assessed)
	}
	return output, nil
}

// errorCodeOf maps an item failure onto the worker error taxonomy.
func errorCodeOf(err error) string {
	var se *apperrors.StandardError
	if errors.As(err, &se) {
		return string(se.Code)
	}
	return string(apperrors.ErrCodeAssessmentFailed)
}

// accumulate folds one result into the running statistics; Mean holds the
// raw sum until execute divides it.
func accumulate(stats *Statistics, result *models.AssessmentResult) {
	if stats.Assessed == 0 || result.Total < stats.Min {
		stats.Min = result.Total
	}
	if result.Total > stats.Max {
		stats.Max = result.Total
	}
	stats.Mean += result.Total
	stats.Assessed++
	stats.Levels[result.QualificationLevel]++
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

// Execute runs the batch outside the job lifecycle. Used by tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
