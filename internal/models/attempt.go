package models

import "time"

// SubjectScore is one subject's slice of a test attempt.
type SubjectScore struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SubjectScores is keyed by subject; stored as a JSONB column on the attempt.
type SubjectScores map[Subject]SubjectScore

// TestAttempt is one accepted submission. Append-only: created exactly once,
// never mutated.
type TestAttempt struct {
	ID               int64         `json:"id"`
	StudentID        int64         `json:"student_id"`
	TestType         TestType      `json:"test_type"`
	Week             int           `json:"week"`
	Subjects         []Subject     `json:"subjects"`
	Score            int           `json:"score"`
	TotalQuestions   int           `json:"total_questions"`
	TimeSpentSeconds int           `json:"time_spent_seconds"`
	SubjectScores    SubjectScores `json:"subject_scores"`
	CompletedAt      time.Time     `json:"completed_at"`
}

// Percentage returns the attempt score as a percentage of total questions.
func (a TestAttempt) Percentage() float64 {
	if a.TotalQuestions == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalQuestions) * 100
}

// QuestionAttempt is one answered question within a TestAttempt. Created
// atomically with its parent.
type QuestionAttempt struct {
	ID             int64  `json:"id"`
	TestAttemptID  int64  `json:"test_attempt_id"`
	QuestionID     int64  `json:"question_id"`
	SelectedOption string `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
}

// WeekProgress is derived from attempt history on demand, never persisted.
type WeekProgress struct {
	Week          int  `json:"week"`
	PreCompleted  bool `json:"pre_completed"`
	PostCompleted bool `json:"post_completed"`
	Unlocked      bool `json:"unlocked"`
}

// ── Progression Gate ─────────────────────────────────────

type ReasonCode string

const (
	ReasonAllowed             ReasonCode = "allowed"
	ReasonAlreadyCompleted    ReasonCode = "already_completed"
	ReasonWeekLocked          ReasonCode = "week_locked"
	ReasonPrerequisiteMissing ReasonCode = "prerequisite_missing"
	ReasonError               ReasonCode = "error"
)

// AccessDecision is the gate's verdict for a (student, week, testType) request.
type AccessDecision struct {
	CanTake    bool       `json:"can_take"`
	ReasonCode ReasonCode `json:"reason_code"`
	Message    string     `json:"message"`
}

// ── Request/Response Types ───────────────────────────────

// SubmittedQuestion carries the reference data the content layer resolved for
// one question in a submission.
type SubmittedQuestion struct {
	QuestionID    int64   `json:"question_id"`
	Subject       Subject `json:"subject"`
	CorrectOption string  `json:"correct_option"`
	ConceptIDs    []int64 `json:"concept_ids"`
}

type SubmitAttemptRequest struct {
	TestType         TestType            `json:"test_type"`
	Week             int                 `json:"week"`
	Subjects         []Subject           `json:"subjects"`
	Questions        []SubmittedQuestion `json:"questions"`
	Answers          map[int64]string    `json:"answers"`
	TimeSpentSeconds int                 `json:"time_spent_seconds"`
}

type SubmitAttemptResponse struct {
	AttemptID      int64         `json:"attempt_id"`
	Score          int           `json:"score"`
	TotalQuestions int           `json:"total_questions"`
	Percentage     float64       `json:"percentage"`
	SubjectScores  SubjectScores `json:"subject_scores"`
}

type WeekProgressResponse struct {
	Weeks        []WeekProgress `json:"weeks"`
	MockUnlocked bool           `json:"mock_unlocked"`
	CurrentWeek  int            `json:"current_week"`
}
