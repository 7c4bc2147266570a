package models

import "time"

type Subject string

const (
	SubjectAbnormal      Subject = "abnormal_psychology"
	SubjectDevelopmental Subject = "developmental_psychology"
	SubjectIndustrial    Subject = "industrial_psychology"
	SubjectAssessment    Subject = "psychological_assessment"
)

// AllSubjects lists the four board-exam subjects in canonical order.
var AllSubjects = []Subject{
	SubjectAbnormal,
	SubjectDevelopmental,
	SubjectIndustrial,
	SubjectAssessment,
}

var ValidSubjects = map[Subject]bool{
	SubjectAbnormal:      true,
	SubjectDevelopmental: true,
	SubjectIndustrial:    true,
	SubjectAssessment:    true,
}

var subjectDisplayNames = map[Subject]string{
	SubjectAbnormal:      "Abnormal Psychology",
	SubjectDevelopmental: "Developmental Psychology",
	SubjectIndustrial:    "Industrial Psychology",
	SubjectAssessment:    "Psychological Assessment",
}

// DisplayName returns the human-readable subject name.
func (s Subject) DisplayName() string {
	if name, ok := subjectDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

type TestType string

const (
	TestPre  TestType = "pre-test"
	TestPost TestType = "post-test"
	TestMock TestType = "mock-exam"
)

var ValidTestTypes = map[TestType]bool{
	TestPre:  true,
	TestPost: true,
	TestMock: true,
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Concept is a named unit of testable knowledge. Reference data owned by the
// content-authoring layer; read-only from this core's perspective.
type Concept struct {
	ID      int64   `json:"id"`
	Subject Subject `json:"subject"`
	Topic   string  `json:"topic"`
}

// Question is reference data mapping to zero or more concepts.
type Question struct {
	ID            int64      `json:"id"`
	Subject       Subject    `json:"subject"`
	Difficulty    Difficulty `json:"difficulty"`
	CorrectOption string     `json:"correct_option"`
	ConceptIDs    []int64    `json:"concept_ids"`
	CreatedAt     time.Time  `json:"created_at"`
}
