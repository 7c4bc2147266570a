package models

import "time"

type MasteryLabel string

const (
	LabelMastered   MasteryLabel = "mastered"
	LabelProficient MasteryLabel = "proficient"
	LabelDeveloping MasteryLabel = "developing"
	LabelBeginning  MasteryLabel = "beginning"
	LabelNovice     MasteryLabel = "novice"
)

// ConceptMastery is the per-(student, concept) tracking row.
// Invariants: 0 <= MasteryLevel <= 1 and CorrectAttempts <= Attempts.
type ConceptMastery struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"student_id"`
	ConceptID       int64     `json:"concept_id"`
	MasteryLevel    float64   `json:"mastery_level"`
	Attempts        int       `json:"attempts"`
	CorrectAttempts int       `json:"correct_attempts"`
	IntervalDays    int       `json:"interval_days"`
	EaseFactor      float64   `json:"ease_factor"`
	LastReviewed    time.Time `json:"last_reviewed"`
	NextReviewDate  time.Time `json:"next_review_date"`
}

// ── Request/Response Types ───────────────────────────────

type UpdateMasteryRequest struct {
	ConceptID int64 `json:"concept_id"`
	IsCorrect *bool `json:"is_correct"`
}

type UpdateMasteryResponse struct {
	ConceptID       int64        `json:"concept_id"`
	MasteryLevel    float64      `json:"mastery_level"`
	MasteryLabel    MasteryLabel `json:"mastery_label"`
	Attempts        int          `json:"attempts"`
	CorrectAttempts int          `json:"correct_attempts"`
	NextReviewDate  time.Time    `json:"next_review_date"`
}

// MasterySummary is the bucket breakdown across a student's concepts.
type MasterySummary struct {
	Total          int     `json:"total"`
	Mastered       int     `json:"mastered"`
	Proficient     int     `json:"proficient"`
	Developing     int     `json:"developing"`
	Beginning      int     `json:"beginning"`
	Novice         int     `json:"novice"`
	AverageMastery float64 `json:"average_mastery"`
}

type MasterySummaryResponse struct {
	Summary      MasterySummary   `json:"summary"`
	WeakConcepts []ConceptMastery `json:"weak_concepts"`
	AllConcepts  []ConceptMastery `json:"all_concepts"`
}

// DueConcept is a concept whose review date has passed.
type DueConcept struct {
	ConceptID      int64     `json:"concept_id"`
	MasteryLevel   float64   `json:"mastery_level"`
	NextReviewDate time.Time `json:"next_review_date"`
	DaysOverdue    int       `json:"days_overdue"`
}

type DueConceptsResponse struct {
	Due []DueConcept `json:"due"`
}
