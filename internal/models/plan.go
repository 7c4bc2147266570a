package models

// SubjectPlan is one subject's slice of a weekly study plan.
type SubjectPlan struct {
	Subject  Subject                `json:"subject"`
	Hours    int                    `json:"hours"`
	Priority RecommendationPriority `json:"priority"`
	Focus    string                 `json:"focus"`
}

// StudyPlan is the advisor's output: weekly hour allocation per subject plus
// next steps, optionally enriched with an LLM-written narrative.
type StudyPlan struct {
	TotalStudyHours int           `json:"total_study_hours"`
	Plan            []SubjectPlan `json:"plan"`
	WeakSubjects    []Subject     `json:"weak_subjects"`
	Strengths       []Subject     `json:"strengths"`
	TodayFocus      []Subject     `json:"today_focus"`
	NextSteps       []string      `json:"next_steps"`
	Narrative       string        `json:"narrative,omitempty"`
}
