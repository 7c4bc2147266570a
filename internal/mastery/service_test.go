package mastery

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/boardprep/backend/internal/models"
	"github.com/boardprep/backend/internal/scorer"
)

var serviceNow = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

// freshRow mirrors the schema defaults for a row created on first contact.
func freshRow(prior float64) models.ConceptMastery {
	return models.ConceptMastery{
		StudentID:    1,
		ConceptID:    1,
		MasteryLevel: prior,
		IntervalDays: 1,
		EaseFactor:   2.5,
	}
}

func outcomeService(updater scorer.MasteryUpdater) *Service {
	svc := NewService(nil, updater)
	svc.now = func() time.Time { return serviceNow }
	return svc
}

type erroringUpdater struct{}

func (erroringUpdater) Update(_ context.Context, _ float64, _ bool) (float64, error) {
	return 0, errors.New("connection refused")
}

func TestApplyOutcome_FirstCorrectAttempt(t *testing.T) {
	p := DefaultParams()
	svc := outcomeService(scorer.NewLocal(p.Update))

	got := svc.applyOutcome(context.Background(), freshRow(p.Prior), true, serviceNow)

	if got.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", got.Attempts)
	}
	if got.CorrectAttempts != 1 {
		t.Errorf("CorrectAttempts = %d, want 1", got.CorrectAttempts)
	}
	if math.Abs(got.MasteryLevel-0.5333) > 0.001 {
		t.Errorf("MasteryLevel = %f, want ~0.5333", got.MasteryLevel)
	}
	if !got.LastReviewed.Equal(serviceNow) {
		t.Errorf("LastReviewed = %v, want %v", got.LastReviewed, serviceNow)
	}
	// Below proficient: interval resets toward daily review.
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
	if !got.NextReviewDate.Equal(serviceNow.AddDate(0, 0, 1)) {
		t.Errorf("NextReviewDate = %v, want now+1d", got.NextReviewDate)
	}
}

func TestApplyOutcome_IncorrectIncrementsOnlyAttempts(t *testing.T) {
	p := DefaultParams()
	svc := outcomeService(scorer.NewLocal(p.Update))

	got := svc.applyOutcome(context.Background(), freshRow(p.Prior), false, serviceNow)
	if got.Attempts != 1 || got.CorrectAttempts != 0 {
		t.Errorf("counters = (%d, %d), want (1, 0)", got.Attempts, got.CorrectAttempts)
	}
}

func TestApplyOutcome_SchedulerWiring(t *testing.T) {
	// An updater that lands at 0.95 must put the row in the ×2.5 regime.
	svc := outcomeService(scorer.NewLocal(func(float64, bool) float64 { return 0.95 }))

	m := freshRow(0.9)
	m.IntervalDays = 4

	got := svc.applyOutcome(context.Background(), m, true, serviceNow)
	if got.IntervalDays != 10 {
		t.Errorf("IntervalDays = %d, want 10 (4 days × 2.5)", got.IntervalDays)
	}
	if !got.NextReviewDate.Equal(serviceNow.AddDate(0, 0, 10)) {
		t.Errorf("NextReviewDate = %v, want now+10d", got.NextReviewDate)
	}
	if math.Abs(got.EaseFactor-2.55) > 1e-9 {
		t.Errorf("EaseFactor = %f, want 2.55", got.EaseFactor)
	}
}

func TestApplyOutcome_CounterInvariant(t *testing.T) {
	p := DefaultParams()
	svc := outcomeService(scorer.NewLocal(p.Update))

	m := freshRow(p.Prior)
	outcomes := []bool{true, false, true, true, false, false, true, false, true, true}
	for i, correct := range outcomes {
		m = svc.applyOutcome(context.Background(), m, correct, serviceNow)
		if m.CorrectAttempts > m.Attempts {
			t.Fatalf("step %d: correctAttempts %d > attempts %d", i, m.CorrectAttempts, m.Attempts)
		}
		if m.MasteryLevel < 0 || m.MasteryLevel > 1 {
			t.Fatalf("step %d: mastery %f outside [0,1]", i, m.MasteryLevel)
		}
	}
	if m.Attempts != len(outcomes) {
		t.Errorf("Attempts = %d, want %d", m.Attempts, len(outcomes))
	}
	if m.CorrectAttempts != 6 {
		t.Errorf("CorrectAttempts = %d, want 6", m.CorrectAttempts)
	}
}

func TestApplyOutcome_UpdaterErrorFallsBackToLocalFormula(t *testing.T) {
	// A bare remote updater with no Failover wrapper must not persist a
	// zero mastery level on failure.
	p := DefaultParams()
	svc := outcomeService(erroringUpdater{})

	got := svc.applyOutcome(context.Background(), freshRow(p.Prior), true, serviceNow)

	want := p.Update(p.Prior, true)
	if math.Abs(got.MasteryLevel-want) > 1e-9 {
		t.Errorf("MasteryLevel = %f, want local formula's %f", got.MasteryLevel, want)
	}
	if got.Attempts != 1 || got.CorrectAttempts != 1 {
		t.Errorf("counters = (%d, %d), want (1, 1)", got.Attempts, got.CorrectAttempts)
	}
}
