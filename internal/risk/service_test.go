package risk

import (
	"context"
	"testing"
	"time"

	"github.com/boardprep/backend/internal/models"
	"github.com/boardprep/backend/internal/progression"
)

type fakeAttempts struct {
	attempts []models.TestAttempt
}

func (f *fakeAttempts) ListByStudent(_ context.Context, _ int64) ([]models.TestAttempt, error) {
	return f.attempts, nil
}

type fakeAlerts struct {
	created []models.AtRiskAlert
}

func (f *fakeAlerts) CreateAlert(_ context.Context, alert *models.AtRiskAlert) error {
	alert.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *alert)
	return nil
}

func (f *fakeAlerts) ListAlerts(_ context.Context, _ int64) ([]models.AtRiskAlert, error) {
	return f.created, nil
}

func newTestService(attempts []models.TestAttempt, alerts *fakeAlerts) *Service {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(
		&fakeAttempts{attempts: attempts},
		alerts,
		DefaultThresholds(),
		progression.Calendar{
			StartDate: now.AddDate(0, 0, -28),
			WeekCount: 8,
			ExamDate:  now.AddDate(0, 0, 56),
		},
	)
	svc.now = func() time.Time { return now }
	return svc
}

func failingAttempt(score int) models.TestAttempt {
	return models.TestAttempt{
		Score:          score,
		TotalQuestions: 100,
		SubjectScores: models.SubjectScores{
			models.SubjectAbnormal: {Score: score, Total: 100, Percentage: float64(score)},
		},
	}
}

func TestServicePersistsHighRiskAlert(t *testing.T) {
	alerts := &fakeAlerts{}
	svc := newTestService([]models.TestAttempt{
		failingAttempt(50), failingAttempt(45), failingAttempt(40),
	}, alerts)

	got, err := svc.Assess(context.Background(), 7)
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if got.RiskLevel != models.RiskHigh {
		t.Fatalf("RiskLevel = %q, want high", got.RiskLevel)
	}

	if len(alerts.created) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts.created))
	}
	alert := alerts.created[0]
	if alert.StudentID != 7 {
		t.Errorf("alert StudentID = %d, want 7", alert.StudentID)
	}
	if alert.RiskLevel != got.RiskLevel || alert.RiskScore != got.RiskScore {
		t.Errorf("alert (%q, %v) does not match assessment (%q, %v)",
			alert.RiskLevel, alert.RiskScore, got.RiskLevel, got.RiskScore)
	}
	if len(alert.Reasons) != len(got.RiskFactors) {
		t.Errorf("alert has %d reasons, assessment has %d factors", len(alert.Reasons), len(got.RiskFactors))
	}
}

func TestServiceColdStartNoAlert(t *testing.T) {
	alerts := &fakeAlerts{}
	svc := newTestService(nil, alerts)

	got, err := svc.Assess(context.Background(), 7)
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if got.RiskLevel != models.RiskMedium {
		t.Errorf("RiskLevel = %q, want medium", got.RiskLevel)
	}
	if len(alerts.created) != 0 {
		t.Errorf("got %d alerts, want none for a cold start", len(alerts.created))
	}
}

func TestServiceLowRiskNoAlert(t *testing.T) {
	alerts := &fakeAlerts{}
	svc := newTestService([]models.TestAttempt{
		failingAttempt(82), failingAttempt(85), failingAttempt(88),
	}, alerts)

	got, err := svc.Assess(context.Background(), 7)
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if got.RiskLevel != models.RiskLow {
		t.Errorf("RiskLevel = %q, want low", got.RiskLevel)
	}
	if len(alerts.created) != 0 {
		t.Errorf("got %d alerts, want none", len(alerts.created))
	}
}
