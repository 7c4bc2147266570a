package attempts

import (
	"context"
	"fmt"
	"log"

	"github.com/boardprep/backend/internal/mastery"
	"github.com/boardprep/backend/internal/models"
	"github.com/boardprep/backend/internal/progression"
)

// AccessDeniedError carries the gate's decision to the handler. Terminal:
// reported verbatim, never retried.
type AccessDeniedError struct {
	Decision models.AccessDecision
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied (%s): %s", e.Decision.ReasonCode, e.Decision.Message)
}

type Service struct {
	store   *Store
	gate    progression.Gate
	mastery *mastery.Service
}

func NewService(store *Store, gate progression.Gate, masteryService *mastery.Service) *Service {
	return &Service{
		store:   store,
		gate:    gate,
		mastery: masteryService,
	}
}

// CheckAccess consults the gate against the student's history. A history
// lookup failure becomes a conservative deny: access control beats
// availability.
func (s *Service) CheckAccess(ctx context.Context, studentID int64, week int, testType models.TestType) models.AccessDecision {
	history, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		log.Printf("[attempts] history lookup failed for student %d: %v", studentID, err)
		return models.AccessDecision{
			CanTake:    false,
			ReasonCode: models.ReasonError,
			Message:    "Unable to verify your progress right now. Try again shortly",
		}
	}
	return s.gate.CheckAccess(history, week, testType)
}

// WeekProgress derives the student's per-week completion and lock state.
func (s *Service) WeekProgress(ctx context.Context, studentID int64, currentWeek int) (*models.WeekProgressResponse, error) {
	history, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &models.WeekProgressResponse{
		Weeks:        s.gate.WeekProgress(history),
		MockUnlocked: s.gate.MockUnlocked(history),
		CurrentWeek:  currentWeek,
	}, nil
}

// Submit grades and records a test submission: gate check, atomic
// TestAttempt + QuestionAttempts insert, then one mastery update per tagged
// concept in question order so repeated concepts within a submission apply
// deterministically.
func (s *Service) Submit(ctx context.Context, studentID int64, req models.SubmitAttemptRequest) (*models.SubmitAttemptResponse, error) {
	decision := s.CheckAccess(ctx, studentID, req.Week, req.TestType)
	if !decision.CanTake {
		return nil, &AccessDeniedError{Decision: decision}
	}

	attempt, questionAttempts := grade(studentID, req)

	if err := s.store.Create(ctx, attempt, questionAttempts); err != nil {
		// ErrDuplicateAttempt passes through for the handler to map.
		return nil, err
	}

	s.applyMasteryUpdates(ctx, studentID, req.Questions, questionAttempts)

	return &models.SubmitAttemptResponse{
		AttemptID:      attempt.ID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.Percentage(),
		SubjectScores:  attempt.SubjectScores,
	}, nil
}

// History returns the student's attempts, most recent first.
func (s *Service) History(ctx context.Context, studentID int64) ([]models.TestAttempt, error) {
	history, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// grade scores the submission and builds the rows to persist. Unanswered
// questions count as incorrect.
func grade(studentID int64, req models.SubmitAttemptRequest) (*models.TestAttempt, []models.QuestionAttempt) {
	perSubject := make(models.SubjectScores)
	questionAttempts := make([]models.QuestionAttempt, 0, len(req.Questions))
	score := 0

	for _, q := range req.Questions {
		selected := req.Answers[q.QuestionID]
		correct := selected != "" && selected == q.CorrectOption
		if correct {
			score++
		}

		ss := perSubject[q.Subject]
		ss.Total++
		if correct {
			ss.Score++
		}
		perSubject[q.Subject] = ss

		questionAttempts = append(questionAttempts, models.QuestionAttempt{
			QuestionID:     q.QuestionID,
			SelectedOption: selected,
			IsCorrect:      correct,
		})
	}

	for subject, ss := range perSubject {
		if ss.Total > 0 {
			ss.Percentage = float64(ss.Score) / float64(ss.Total) * 100
		}
		perSubject[subject] = ss
	}

	return &models.TestAttempt{
		StudentID:        studentID,
		TestType:         req.TestType,
		Week:             req.Week,
		Subjects:         req.Subjects,
		Score:            score,
		TotalQuestions:   len(req.Questions),
		TimeSpentSeconds: req.TimeSpentSeconds,
		SubjectScores:    perSubject,
	}, questionAttempts
}

// applyMasteryUpdates feeds each concept-tagged outcome to the mastery
// tracker. Updates run sequentially in question order, so multiple questions
// hitting the same concept within one submission apply in a fixed order and
// the attempt counters stay reproducible. A failed update is retried once
// before being logged; the attempt row itself is already committed.
func (s *Service) applyMasteryUpdates(ctx context.Context, studentID int64, questions []models.SubmittedQuestion, graded []models.QuestionAttempt) {
	for i, q := range questions {
		correct := graded[i].IsCorrect
		for _, conceptID := range q.ConceptIDs {
			if _, err := s.mastery.RecordOutcome(ctx, studentID, conceptID, correct); err != nil {
				log.Printf("[attempts] mastery update failed for student %d concept %d, retrying: %v",
					studentID, conceptID, err)
				if _, err := s.mastery.RecordOutcome(ctx, studentID, conceptID, correct); err != nil {
					log.Printf("[attempts] mastery update retry failed for student %d concept %d: %v",
						studentID, conceptID, err)
				}
			}
		}
	}
}
