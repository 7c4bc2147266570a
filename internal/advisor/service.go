package advisor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/boardprep/backend/internal/models"
	"github.com/boardprep/backend/internal/progression"
)

// AttemptSource supplies a student's attempt history, oldest first.
type AttemptSource interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.TestAttempt, error)
}

type Service struct {
	attempts AttemptSource
	llm      LLMClient
	calendar progression.Calendar
	now      func() time.Time
}

func NewService(attempts AttemptSource, llm LLMClient, calendar progression.Calendar) *Service {
	return &Service{
		attempts: attempts,
		llm:      llm,
		calendar: calendar,
		now:      time.Now,
	}
}

// Plan builds the weekly study plan from the student's attempt history. The
// allocation is deterministic; the narrative comes from the LLM and is
// dropped, not failed on, when the client errors.
func (s *Service) Plan(ctx context.Context, studentID int64) (models.StudyPlan, error) {
	history, err := s.attempts.ListByStudent(ctx, studentID)
	if err != nil {
		return models.StudyPlan{}, fmt.Errorf("failed to load attempt history: %w", err)
	}

	averages := subjectAverages(history)
	plan := BuildPlan(averages)

	weeks := s.calendar.WeeksUntilExam(s.now())
	resp, err := s.llm.Generate(ctx, PlanSystemPrompt(), BuildPlanUserPrompt(plan, averages, weeks))
	if err != nil {
		log.Printf("[advisor] narrative generation failed for student %d: %v", studentID, err)
		return plan, nil
	}
	plan.Narrative = resp.Content

	return plan, nil
}

func subjectAverages(history []models.TestAttempt) map[models.Subject]float64 {
	totals := make(map[models.Subject]float64)
	counts := make(map[models.Subject]int)

	for _, a := range history {
		for subject, ss := range a.SubjectScores {
			totals[subject] += ss.Percentage
			counts[subject]++
		}
	}

	averages := make(map[models.Subject]float64, len(totals))
	for subject, total := range totals {
		averages[subject] = total / float64(counts[subject])
	}
	return averages
}
