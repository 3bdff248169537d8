// internal/assessment/rules.go
package assessment

import (
	"fmt"
	"strings"
	"time"

	"assessment-workers/internal/common/config"
	"assessment-workers/internal/models"
)

// degreeRanks orders education levels for the monotonic education formula.
// Unknown levels rank 0 and score nothing.
var degreeRanks = map[string]int{
	"elementary":    1,
	"high school":   2,
	"secondary":     2,
	"vocational":    3,
	"associate":     3,
	"bachelor":      4,
	"bachelors":     4,
	"college":       4,
	"master":        5,
	"masters":       5,
	"doctorate":     6,
	"doctoral":      6,
	"phd":           6,
	"post-doctoral": 7,
}

const (
	// defaultRequiredYears applies when a posting does not state a years
	// requirement.
	defaultRequiredYears = 5.0

	// fullTrainingCredit is the number of recent qualifying trainings that
	// earns the full training maximum.
	fullTrainingCredit = 5.0

	// trainingRecencyYears: trainings older than this earn half credit.
	trainingRecencyYears = 5
)

// RuleBasedScorer computes the deterministic official-criteria components.
// Construction fails fast when the category maxima do not sum to the nominal
// maximum; a bad scoring sheet must never score anyone.
type RuleBasedScorer struct {
	maxima     map[models.Category]float64
	nominalMax float64

	// now is injectable for recency tests.
	now func() time.Time
}

func NewRuleBasedScorer(cfg config.ScoringConfig) (*RuleBasedScorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	maxima := make(map[models.Category]float64, len(cfg.CategoryMaxima))
	for cat, max := range cfg.CategoryMaxima {
		maxima[models.Category(cat)] = max
	}

	return &RuleBasedScorer{
		maxima:     maxima,
		nominalMax: cfg.NominalMax,
		now:        time.Now,
	}, nil
}

// NominalMax returns the configured total of all category maxima.
func (s *RuleBasedScorer) NominalMax() float64 { return s.nominalMax }

// Max returns one category's maximum.
func (s *RuleBasedScorer) Max(cat models.Category) float64 { return s.maxima[cat] }

// Score evaluates every rule-based category for the candidate against the
// job. All six components are always present, clamped to [0, category max].
func (s *RuleBasedScorer) Score(candidate *models.CandidateProfile, job *models.JobRequirement) []models.ComponentScore {
	components := []models.ComponentScore{
		s.scoreEducation(candidate, job),
		s.scoreExperience(candidate, job),
		s.scoreTraining(candidate, job),
		s.scoreEligibility(candidate),
	}
	components = append(components, s.scoreManual(candidate)...)
	return components
}

// Subtotal sums component values.
func Subtotal(components []models.ComponentScore) float64 {
	var total float64
	for _, c := range components {
		total += c.Value
	}
	return total
}

func (s *RuleBasedScorer) scoreEducation(candidate *models.CandidateProfile, job *models.JobRequirement) models.ComponentScore {
	max := s.maxima[models.CategoryEducation]

	required := degreeRank(job.RequiredLevel)
	if required == 0 {
		required = degreeRanks["bachelor"]
	}

	best := 0
	bestLabel := ""
	for _, edu := range candidate.Education {
		if r := degreeRank(edu.Level); r > best {
			best = r
			bestLabel = edu.Level
		}
	}

	var value float64
	var rationale string
	switch {
	case best == 0:
		rationale = "no recognized education level"
	case best >= required:
		value = max
		rationale = fmt.Sprintf("%s meets or exceeds required level", bestLabel)
	default:
		// Lower levels earn a proportional fraction; strictly increasing in
		// the attained level.
		value = max * float64(best) / float64(required)
		rationale = fmt.Sprintf("%s below required level", bestLabel)
	}

	return component(models.CategoryEducation, value, max, rationale)
}

func (s *RuleBasedScorer) scoreExperience(candidate *models.CandidateProfile, job *models.JobRequirement) models.ComponentScore {
	max := s.maxima[models.CategoryExperience]

	requiredYears := job.RequiredYears
	if requiredYears <= 0 {
		requiredYears = defaultRequiredYears
	}

	var relevantYears float64
	var relevantRoles int
	for _, exp := range candidate.Experience {
		if !experienceRelevant(exp, job.Keywords) {
			continue
		}
		relevantRoles++
		if exp.Years > 0 {
			relevantYears += exp.Years
		} else {
			// A dated role without a year count still counts for something.
			relevantYears += 1
		}
	}

	fraction := relevantYears / requiredYears
	if fraction > 1 {
		fraction = 1
	}
	value := max * fraction

	rationale := fmt.Sprintf("%.1f relevant years across %d roles (required %.1f)",
		relevantYears, relevantRoles, requiredYears)
	return component(models.CategoryExperience, value, max, rationale)
}

func (s *RuleBasedScorer) scoreTraining(candidate *models.CandidateProfile, job *models.JobRequirement) models.ComponentScore {
	max := s.maxima[models.CategoryTraining]
	currentYear := s.now().Year()

	var credit float64
	var qualifying int
	for _, tr := range candidate.Training {
		if tr.Title == "" || !trainingRelevant(tr, job.Keywords) {
			continue
		}
		qualifying++
		if tr.Year == 0 || currentYear-tr.Year <= trainingRecencyYears {
			credit += 1
		} else {
			credit += 0.5
		}
	}

	fraction := credit / fullTrainingCredit
	if fraction > 1 {
		fraction = 1
	}
	value := max * fraction

	rationale := fmt.Sprintf("%d qualifying trainings, %.1f recency-weighted credit", qualifying, credit)
	return component(models.CategoryTraining, value, max, rationale)
}

func (s *RuleBasedScorer) scoreEligibility(candidate *models.CandidateProfile) models.ComponentScore {
	max := s.maxima[models.CategoryEligibility]

	for _, e := range candidate.Eligibility {
		if strings.TrimSpace(e.Name) != "" {
			return component(models.CategoryEligibility, max, max, "qualifying eligibility: "+e.Name)
		}
	}
	return component(models.CategoryEligibility, 0, max, "no qualifying eligibility")
}

// scoreManual passes through the caller-supplied potential and performance
// values, clamping out-of-range input instead of rejecting it. The clamp is
// always recorded in the rationale.
func (s *RuleBasedScorer) scoreManual(candidate *models.CandidateProfile) []models.ComponentScore {
	manual := candidate.ManualScores
	out := make([]models.ComponentScore, 0, 2)

	for _, cat := range []models.Category{models.CategoryPotential, models.CategoryPerformance} {
		max := s.maxima[cat]

		var supplied *float64
		if manual != nil {
			switch cat {
			case models.CategoryPotential:
				supplied = manual.Potential
			case models.CategoryPerformance:
				supplied = manual.Performance
			}
		}

		if supplied == nil {
			out = append(out, component(cat, 0, max, "no manual score entered"))
			continue
		}

		value := *supplied
		rationale := fmt.Sprintf("manual score %.1f", value)
		if value < 0 {
			rationale = fmt.Sprintf("manual score %.1f clamped to 0 (below range)", value)
			value = 0
		} else if value > max {
			rationale = fmt.Sprintf("manual score %.1f clamped to %.1f (above range)", value, max)
			value = max
		}
		out = append(out, component(cat, value, max, rationale))
	}
	return out
}

func component(cat models.Category, value, max float64, rationale string) models.ComponentScore {
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	return models.ComponentScore{
		Category:  cat,
		Value:     value,
		Max:       max,
		Source:    models.SourceRule,
		Rationale: rationale,
	}
}

func degreeRank(level string) int {
	return degreeRanks[strings.ToLower(strings.TrimSpace(level))]
}

func experienceRelevant(exp models.ExperienceEntry, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(exp.Position + " " + exp.Company + " " + exp.Description)
	return containsAny(haystack, keywords)
}

func trainingRelevant(tr models.TrainingEntry, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(tr.Title + " " + tr.Type + " " + tr.Conductor)
	return containsAny(haystack, keywords)
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
