// internal/models/candidate.go
package models

// ProfileKind discriminates between fully structured candidate records and
// legacy records that only carry unparsed free text.
type ProfileKind string

const (
	ProfileKindStructured ProfileKind = "structured"
	ProfileKindLegacy     ProfileKind = "legacy"
)

// CandidateProfile is the engine's read-only view of a candidate. It is
// produced by the document-extraction collaborators and supplied per call;
// the engine never mutates it.
type CandidateProfile struct {
	ID          string             `json:"id"`
	Name        string             `json:"name,omitempty"`
	Kind        ProfileKind        `json:"kind,omitempty"`
	Education   []EducationEntry   `json:"education,omitempty"`
	Experience  []ExperienceEntry  `json:"experience,omitempty"`
	Training    []TrainingEntry    `json:"training,omitempty"`
	Eligibility []EligibilityEntry `json:"eligibility,omitempty"`

	// RawText carries the unstructured profile text for legacy records.
	RawText string `json:"rawText,omitempty"`

	ManualScores *ManualScores `json:"manualScores,omitempty"`
}

type EducationEntry struct {
	Level         string `json:"level"`
	Degree        string `json:"degree"`
	School        string `json:"school"`
	Honors        string `json:"honors,omitempty"`
	YearGraduated int    `json:"yearGraduated,omitempty"`
}

type ExperienceEntry struct {
	Position    string  `json:"position"`
	Company     string  `json:"company"`
	Grade       string  `json:"grade,omitempty"`
	Description string  `json:"description,omitempty"`
	Years       float64 `json:"years,omitempty"`
	DateFrom    string  `json:"dateFrom,omitempty"`
	DateTo      string  `json:"dateTo,omitempty"`
}

type TrainingEntry struct {
	Title     string  `json:"title"`
	Type      string  `json:"type,omitempty"`
	Conductor string  `json:"conductor,omitempty"`
	Hours     float64 `json:"hours,omitempty"`
	Year      int     `json:"year,omitempty"`
}

// EligibilityEntry is a certification or civil-service eligibility record.
type EligibilityEntry struct {
	Name       string  `json:"name"`
	Rating     float64 `json:"rating,omitempty"`
	DateOfExam string  `json:"dateOfExam,omitempty"`
}

// ManualScores are caller-supplied values for the categories that cannot be
// derived from the profile (interview/exam results, performance ratings).
// Nil pointers mean "not yet entered", which scores as zero.
type ManualScores struct {
	Potential   *float64 `json:"potential,omitempty"`
	Performance *float64 `json:"performance,omitempty"`
}
