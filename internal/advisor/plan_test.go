package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boardprep/backend/internal/models"
	"github.com/boardprep/backend/internal/progression"
)

func TestBuildPlan(t *testing.T) {
	averages := map[models.Subject]float64{
		models.SubjectAbnormal:      55, // weak
		models.SubjectDevelopmental: 75, // moderate
		models.SubjectIndustrial:    90, // strong
		models.SubjectAssessment:    65, // weak
	}

	plan := BuildPlan(averages)

	if plan.TotalStudyHours != 8+4+2+8 {
		t.Errorf("TotalStudyHours = %d, want 22", plan.TotalStudyHours)
	}
	if len(plan.Plan) != 4 {
		t.Fatalf("got %d subject plans, want 4", len(plan.Plan))
	}

	// Canonical subject order is preserved.
	wantHours := map[models.Subject]int{
		models.SubjectAbnormal:      8,
		models.SubjectDevelopmental: 4,
		models.SubjectIndustrial:    2,
		models.SubjectAssessment:    8,
	}
	for i, sp := range plan.Plan {
		if sp.Subject != models.AllSubjects[i] {
			t.Errorf("plan[%d].Subject = %q, want %q", i, sp.Subject, models.AllSubjects[i])
		}
		if sp.Hours != wantHours[sp.Subject] {
			t.Errorf("%s hours = %d, want %d", sp.Subject, sp.Hours, wantHours[sp.Subject])
		}
	}

	wantWeak := []models.Subject{models.SubjectAbnormal, models.SubjectAssessment}
	if len(plan.WeakSubjects) != 2 || plan.WeakSubjects[0] != wantWeak[0] || plan.WeakSubjects[1] != wantWeak[1] {
		t.Errorf("WeakSubjects = %v, want %v", plan.WeakSubjects, wantWeak)
	}
	if len(plan.Strengths) != 1 || plan.Strengths[0] != models.SubjectIndustrial {
		t.Errorf("Strengths = %v, want [industrial_psychology]", plan.Strengths)
	}
	if len(plan.TodayFocus) != 2 {
		t.Errorf("TodayFocus = %v, want the two weak subjects", plan.TodayFocus)
	}
	if len(plan.NextSteps) == 0 || plan.NextSteps[0] != "Focus on Abnormal Psychology" {
		t.Errorf("NextSteps[0] = %q, want focus on the first weak subject", plan.NextSteps)
	}
}

func TestBuildPlanAllStrong(t *testing.T) {
	averages := map[models.Subject]float64{
		models.SubjectAbnormal:      90,
		models.SubjectDevelopmental: 88,
		models.SubjectIndustrial:    92,
		models.SubjectAssessment:    85,
	}

	plan := BuildPlan(averages)

	if plan.TotalStudyHours != 8 {
		t.Errorf("TotalStudyHours = %d, want 8", plan.TotalStudyHours)
	}
	if len(plan.WeakSubjects) != 0 {
		t.Errorf("WeakSubjects = %v, want none", plan.WeakSubjects)
	}
	if len(plan.TodayFocus) != 0 {
		t.Errorf("TodayFocus = %v, want empty", plan.TodayFocus)
	}
	if plan.NextSteps[0] != "Continue maintaining strong performance" {
		t.Errorf("NextSteps[0] = %q", plan.NextSteps[0])
	}
}

func TestBuildPlanColdStart(t *testing.T) {
	// Missing subjects score 0 and land in the weak band.
	plan := BuildPlan(nil)

	if plan.TotalStudyHours != 32 {
		t.Errorf("TotalStudyHours = %d, want 32", plan.TotalStudyHours)
	}
	if len(plan.WeakSubjects) != 4 {
		t.Errorf("WeakSubjects = %v, want all four subjects", plan.WeakSubjects)
	}
}

type fakeAttempts struct {
	attempts []models.TestAttempt
}

func (f *fakeAttempts) ListByStudent(_ context.Context, _ int64) ([]models.TestAttempt, error) {
	return f.attempts, nil
}

type fakeLLM struct {
	narrative string
	err       error
}

func (f *fakeLLM) Generate(_ context.Context, _, _ string) (*LLMResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &LLMResponse{Content: f.narrative}, nil
}

func planService(llm LLMClient) *Service {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(
		&fakeAttempts{attempts: []models.TestAttempt{{
			Score:          55,
			TotalQuestions: 100,
			SubjectScores: models.SubjectScores{
				models.SubjectAbnormal: {Score: 55, Total: 100, Percentage: 55},
			},
		}}},
		llm,
		progression.Calendar{
			StartDate: now.AddDate(0, 0, -28),
			WeekCount: 8,
			ExamDate:  now.AddDate(0, 0, 56),
		},
	)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPlanAttachesNarrative(t *testing.T) {
	svc := planService(&fakeLLM{narrative: "Work abnormal psychology first."})

	plan, err := svc.Plan(context.Background(), 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Narrative != "Work abnormal psychology first." {
		t.Errorf("Narrative = %q", plan.Narrative)
	}
}

func TestPlanSurvivesNarrativeFailure(t *testing.T) {
	svc := planService(&fakeLLM{err: errors.New("api down")})

	plan, err := svc.Plan(context.Background(), 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Narrative != "" {
		t.Errorf("Narrative = %q, want empty after LLM failure", plan.Narrative)
	}
	if plan.TotalStudyHours == 0 {
		t.Error("expected a deterministic plan despite narrative failure")
	}
}
