package risk

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

// AlertSink persists and lists at-risk alert rows.
type AlertSink interface {
	CreateAlert(ctx context.Context, alert *models.AtRiskAlert) error
	ListAlerts(ctx context.Context, studentID int64) ([]models.AtRiskAlert, error)
}

type Service struct {
	attempts   AttemptSource
	alerts     AlertSink
	thresholds Thresholds
	calendar   progression.Calendar
	now        func() time.Time
}

func NewService(attempts AttemptSource, alerts AlertSink, thresholds Thresholds, calendar progression.Calendar) *Service {
	return &Service{
		attempts:   attempts,
		alerts:     alerts,
		thresholds: thresholds,
		calendar:   calendar,
		now:        time.Now,
	}
}

// Assess runs a fresh assessment over the student's history. High and
// critical results also append an alert row; a failed append is logged but
// does not fail the assessment.
func (s *Service) Assess(ctx context.Context, studentID int64) (models.RiskAssessment, error) {
	history, err := s.attempts.ListByStudent(ctx, studentID)
	if err != nil {
		return models.RiskAssessment{}, fmt.Errorf("failed to load attempt history: %w", err)
	}

	inputs := DeriveInputs(history, s.calendar.WeeksUntilExam(s.now()))
	assessment := s.thresholds.Assess(inputs)

	if NeedsAlert(assessment.RiskLevel) {
		alert := &models.AtRiskAlert{
			StudentID:       studentID,
			RiskLevel:       assessment.RiskLevel,
			RiskScore:       assessment.RiskScore,
			PredictedScore:  assessment.PredictedScore,
			WeeksUntilExam:  assessment.WeeksUntilExam,
			Reasons:         assessment.RiskFactors,
			Recommendations: assessment.Recommendations,
		}
		if err := s.alerts.CreateAlert(ctx, alert); err != nil {
			log.Printf("[risk] failed to persist alert for student %d: %v", studentID, err)
		}
	}

	return assessment, nil
}

// Alerts returns the student's alert history, newest first.
func (s *Service) Alerts(ctx context.Context, studentID int64) ([]models.AtRiskAlert, error) {
	alerts, err := s.alerts.ListAlerts(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}
