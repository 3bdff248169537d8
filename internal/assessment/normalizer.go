// internal/assessment/normalizer.go

// Package assessment implements the hybrid scoring pipeline: text
// normalization, rule-based scoring, semantic similarity scoring and the
// aggregation that reconciles them into one explainable result.
package assessment

import (
	"fmt"
	"strings"

	"assessment-workers/internal/models"
)

// NormalizeCandidate extracts one text block per semantic category from a
// candidate profile. Missing categories yield a block with empty strings,
// never a missing map entry. Pure function, no side effects.
func NormalizeCandidate(p *models.CandidateProfile) map[models.Category]models.TextBlock {
	blocks := map[models.Category]models.TextBlock{}

	if p == nil {
		for _, cat := range models.SemanticCategories {
			blocks[cat] = emptyBlock(cat)
		}
		return blocks
	}

	switch p.Kind {
	case models.ProfileKindLegacy:
		// Legacy records carry a single unstructured blob; every category
		// matches against the whole of it.
		for _, cat := range models.SemanticCategories {
			blocks[cat] = newBlock(cat, p.RawText)
		}
	default:
		blocks[models.CategoryEducation] = newBlock(models.CategoryEducation, candidateEducationText(p))
		blocks[models.CategoryExperience] = newBlock(models.CategoryExperience, candidateExperienceText(p))
		blocks[models.CategoryTraining] = newBlock(models.CategoryTraining, candidateTrainingText(p))
	}
	return blocks
}

// NormalizeJob extracts one requirement text block per semantic category.
// Structured postings use their per-category requirement blocks; legacy
// postings fall back to title plus description for every category.
func NormalizeJob(j *models.JobRequirement) map[models.Category]models.TextBlock {
	blocks := map[models.Category]models.TextBlock{}

	if j == nil {
		for _, cat := range models.SemanticCategories {
			blocks[cat] = emptyBlock(cat)
		}
		return blocks
	}

	if j.Kind == models.JobKindLegacy {
		combined := joinNonEmpty(" | ", j.Title, j.Description)
		for _, cat := range models.SemanticCategories {
			blocks[cat] = newBlock(cat, combined)
		}
		return blocks
	}

	blocks[models.CategoryEducation] = newBlock(models.CategoryEducation,
		joinNonEmpty(" | ", j.Title, j.Education))
	blocks[models.CategoryExperience] = newBlock(models.CategoryExperience,
		joinNonEmpty(" | ", j.Title, j.Experience, j.Description))
	blocks[models.CategoryTraining] = newBlock(models.CategoryTraining,
		joinNonEmpty(" | ", j.Title, j.Training, j.Description))
	return blocks
}

// CombinedText joins all non-empty category blocks into one overall-fit
// string, used for the whole-profile vs whole-posting similarity.
func CombinedText(blocks map[models.Category]models.TextBlock) string {
	parts := make([]string, 0, len(models.SemanticCategories))
	for _, cat := range models.SemanticCategories {
		if b, ok := blocks[cat]; ok && b.Display != "" {
			parts = append(parts, b.Display)
		}
	}
	return strings.Join(parts, " | ")
}

func candidateEducationText(p *models.CandidateProfile) string {
	parts := make([]string, 0, len(p.Education))
	for _, edu := range p.Education {
		if edu.Degree == "" && edu.School == "" {
			continue
		}
		text := strings.TrimSpace(fmt.Sprintf("%s %s from %s", edu.Level, edu.Degree, edu.School))
		if edu.Honors != "" {
			text += " with " + edu.Honors
		}
		if edu.YearGraduated > 0 {
			text += fmt.Sprintf(" (graduated %d)", edu.YearGraduated)
		}
		parts = append(parts, "Education: "+text)
	}
	return strings.Join(parts, " | ")
}

func candidateExperienceText(p *models.CandidateProfile) string {
	parts := make([]string, 0, len(p.Experience))
	for _, exp := range p.Experience {
		if exp.Position == "" && exp.Company == "" {
			continue
		}
		text := strings.TrimSpace(exp.Position)
		if exp.Company != "" {
			text += " at " + exp.Company
		}
		if exp.Grade != "" {
			text += fmt.Sprintf(" (%s)", exp.Grade)
		}
		if exp.Description != "" {
			text += " - " + exp.Description
		}
		if exp.DateFrom != "" || exp.DateTo != "" {
			text += fmt.Sprintf(" (%s to %s)", exp.DateFrom, exp.DateTo)
		}
		parts = append(parts, "Experience: "+text)
	}
	return strings.Join(parts, " | ")
}

func candidateTrainingText(p *models.CandidateProfile) string {
	parts := make([]string, 0, len(p.Training))
	for _, tr := range p.Training {
		if tr.Title == "" {
			continue
		}
		text := tr.Title
		if tr.Type != "" {
			text += fmt.Sprintf(" (%s)", tr.Type)
		}
		if tr.Conductor != "" {
			text += " by " + tr.Conductor
		}
		if tr.Hours > 0 {
			text += fmt.Sprintf(" - %.0f hours", tr.Hours)
		}
		parts = append(parts, "Training: "+text)
	}
	return strings.Join(parts, " | ")
}

func newBlock(cat models.Category, display string) models.TextBlock {
	display = strings.TrimSpace(display)
	return models.TextBlock{
		Category: cat,
		Display:  display,
		Match:    strings.ToLower(display),
	}
}

func emptyBlock(cat models.Category) models.TextBlock {
	return models.TextBlock{Category: cat}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, sep)
}
