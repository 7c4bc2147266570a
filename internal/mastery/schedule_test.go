package mastery

import (
	"testing"
	"time"

	"github.com/boardprep/backend/internal/models"
)

var scheduleNow = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func TestNext_HighMasteryStretchesInterval(t *testing.T) {
	s := NewScheduler()

	r := s.Next(0.95, 4, 2.5, scheduleNow)
	if r.IntervalDays != 10 {
		t.Errorf("interval = %d, want 10 (4 days × 2.5)", r.IntervalDays)
	}
	want := scheduleNow.AddDate(0, 0, 10)
	if !r.NextReviewDate.Equal(want) {
		t.Errorf("next review = %v, want %v", r.NextReviewDate, want)
	}
	if r.EaseFactor <= 2.5 {
		t.Errorf("ease = %f, want a slight increase over 2.5", r.EaseFactor)
	}
}

func TestNext_IntervalRegimes(t *testing.T) {
	s := NewScheduler()

	tests := []struct {
		mastery      float64
		priorDays    int
		wantInterval int
	}{
		{0.95, 4, 10}, // ×2.5
		{0.90, 10, 25},
		{0.80, 4, 6}, // ×1.5
		{0.70, 10, 15},
		{0.60, 4, 2}, // ×0.5, reset toward frequent review
		{0.30, 10, 5},
		{0.10, 1, 1}, // floor at one day
		{0.95, 300, 365}, // cap at one year
	}

	for _, tt := range tests {
		r := s.Next(tt.mastery, tt.priorDays, 2.5, scheduleNow)
		if r.IntervalDays != tt.wantInterval {
			t.Errorf("Next(%.2f, %dd) interval = %d, want %d",
				tt.mastery, tt.priorDays, r.IntervalDays, tt.wantInterval)
		}
	}
}

func TestNext_EaseFactorBounds(t *testing.T) {
	s := NewScheduler()

	// Repeated low-mastery updates must not shrink ease below the floor.
	ease := 1.5
	for i := 0; i < 10; i++ {
		r := s.Next(0.2, 1, ease, scheduleNow)
		ease = r.EaseFactor
	}
	if ease != s.MinEaseFactor {
		t.Errorf("ease after repeated failures = %f, want floor %f", ease, s.MinEaseFactor)
	}
}

func TestDueConcepts_FilterAndOrder(t *testing.T) {
	records := []models.ConceptMastery{
		{ConceptID: 1, MasteryLevel: 0.8, NextReviewDate: scheduleNow.AddDate(0, 0, 3)},  // not due
		{ConceptID: 2, MasteryLevel: 0.5, NextReviewDate: scheduleNow.AddDate(0, 0, -1)}, // 1 day over
		{ConceptID: 3, MasteryLevel: 0.3, NextReviewDate: scheduleNow.AddDate(0, 0, -7)}, // 7 days over
		{ConceptID: 4, MasteryLevel: 0.6, NextReviewDate: scheduleNow.AddDate(0, 0, -7)}, // tie, higher mastery
		{ConceptID: 5, MasteryLevel: 0.9, NextReviewDate: scheduleNow},                   // due right now
	}

	due := DueConcepts(records, scheduleNow)

	wantOrder := []int64{3, 4, 2, 5}
	if len(due) != len(wantOrder) {
		t.Fatalf("len(due) = %d, want %d", len(due), len(wantOrder))
	}
	for i, id := range wantOrder {
		if due[i].ConceptID != id {
			t.Errorf("due[%d].ConceptID = %d, want %d", i, due[i].ConceptID, id)
		}
	}

	if due[0].DaysOverdue != 7 {
		t.Errorf("most overdue = %d days, want 7", due[0].DaysOverdue)
	}
}

func TestDueConcepts_NoneDue(t *testing.T) {
	records := []models.ConceptMastery{
		{ConceptID: 1, NextReviewDate: scheduleNow.AddDate(0, 0, 1)},
	}
	if due := DueConcepts(records, scheduleNow); len(due) != 0 {
		t.Errorf("len(due) = %d, want 0", len(due))
	}
}
