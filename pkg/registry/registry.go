// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"os"

	"assessment-workers/internal/common/validation"
)

// LoadRegistry reads an activity registry from a JSON file. Deployments that
// do not ship one use Default.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Default returns the built-in registry covering every task type this binary
// implements.
func Default() *ActivityRegistry {
	candidateSchema := validation.CandidateProfileSchema
	jobSchema := validation.JobRequirementSchema

	return &ActivityRegistry{
		Version:     "1.0",
		LastUpdated: "2026-08-01",
		Activities: []Activity{
			{
				ID:          "assess-candidate",
				DisplayName: "Assess Candidate",
				Description: "Scores one candidate against one job using rule-based, semantic or hybrid aggregation",
				Category:    "assessment",
				TaskType:    "assess-candidate",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"candidate", "job"},
					"properties": map[string]interface{}{
						"candidate": candidateSchema,
						"job":       jobSchema,
						"method": map[string]interface{}{
							"type": "string",
							"enum": []interface{}{"traditional_only", "semantic_only", "hybrid"},
						},
						"weights": map[string]interface{}{"type": "object"},
					},
				},
				OutputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"assessmentResult":   map[string]interface{}{"type": "object"},
						"totalScore":         map[string]interface{}{"type": "number"},
						"qualificationLevel": map[string]interface{}{"type": "string"},
						"semanticDegraded":   map[string]interface{}{"type": "boolean"},
					},
				},
				ErrorCodes: []string{"PARSE_ERROR", "CONFIG_INVALID", "ASSESSMENT_FAILED"},
				Timeout:    "30s",
				Retries:    3,
				Tags:       []string{"assessment", "scoring"},
			},
			{
				ID:          "batch-assess-candidates",
				DisplayName: "Batch Assess Candidates",
				Description: "Scores a list of candidates against one job concurrently and summarizes the outcome",
				Category:    "assessment",
				TaskType:    "batch-assess-candidates",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"candidates", "job"},
					"properties": map[string]interface{}{
						"candidates": map[string]interface{}{
							"type":  "array",
							"items": candidateSchema,
						},
						"job":    jobSchema,
						"method": map[string]interface{}{"type": "string"},
					},
				},
				OutputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"results":    map[string]interface{}{"type": "array"},
						"statistics": map[string]interface{}{"type": "object"},
					},
				},
				ErrorCodes: []string{"PARSE_ERROR", "ASSESSMENT_FAILED"},
				Timeout:    "120s",
				Retries:    1,
				Tags:       []string{"assessment", "batch"},
			},
			{
				ID:          "compare-assessments",
				DisplayName: "Compare Assessments",
				Description: "Diffs traditional and hybrid scoring for one candidate and job",
				Category:    "assessment",
				TaskType:    "compare-assessments",
				InputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"resultA":   map[string]interface{}{"type": "object"},
						"resultB":   map[string]interface{}{"type": "object"},
						"candidate": candidateSchema,
						"job":       jobSchema,
					},
				},
				OutputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"comparisonReport":   map[string]interface{}{"type": "object"},
						"traditionalTotal":   map[string]interface{}{"type": "number"},
						"hybridTotal":        map[string]interface{}{"type": "number"},
						"differenceCategory": map[string]interface{}{"type": "string"},
					},
				},
				ErrorCodes: []string{"PARSE_ERROR", "COMPARISON_FAILED", "ASSESSMENT_FAILED"},
				Timeout:    "60s",
				Retries:    1,
				Tags:       []string{"assessment", "comparison"},
			},
		},
	}
}
