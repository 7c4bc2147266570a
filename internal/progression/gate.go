package progression

import (
	"fmt"

	"github.com/boardprep/backend/internal/models"
)

// Gate decides whether a (student, week, testType) request may produce a new
// TestAttempt. It is a pure function of the student's attempt history: it
// never reads or writes storage itself.
type Gate struct {
	Calendar Calendar

	// RetakeWeek/RetakeTestType designate the single combination that stays
	// repeatable (default: week-1 pre-test, kept as a diagnostic affordance).
	// RetakeWeek 0 disables the exception.
	RetakeWeek     int
	RetakeTestType models.TestType
}

// NewGate returns a gate with the default week-1 pre-test retake exception.
func NewGate(cal Calendar) Gate {
	return Gate{
		Calendar:       cal,
		RetakeWeek:     1,
		RetakeTestType: models.TestPre,
	}
}

// CheckAccess applies the progression rules in priority order. History may be
// in any order; only its contents matter, so repeated calls with unchanged
// history return the same decision.
func (g Gate) CheckAccess(history []models.TestAttempt, week int, testType models.TestType) models.AccessDecision {
	done := completionByWeek(history)

	// Rule 1: one attempt per (week, testType), except the retake combination.
	if hasAttempt(history, week, testType) && !g.retakeEligible(week, testType) {
		return models.AccessDecision{
			CanTake:    false,
			ReasonCode: models.ReasonAlreadyCompleted,
			Message:    fmt.Sprintf("You have already completed the %s for week %d", testType, week),
		}
	}

	switch testType {
	case models.TestPre:
		// Rule 2: sequential unlock. Week n opens once week n-1 is fully done.
		if !g.weekUnlocked(done, week) {
			return models.AccessDecision{
				CanTake:    false,
				ReasonCode: models.ReasonWeekLocked,
				Message:    fmt.Sprintf("Week %d is locked. Complete week %d first", week, week-1),
			}
		}
	case models.TestPost:
		// Rule 3: post-test requires this week's pre-test.
		if !done[week].PreCompleted {
			return models.AccessDecision{
				CanTake:    false,
				ReasonCode: models.ReasonPrerequisiteMissing,
				Message:    fmt.Sprintf("Take the week %d pre-test before the post-test", week),
			}
		}
	case models.TestMock:
		// Rule 4: mock exam requires every curriculum week at PostDone.
		if n := g.completedWeeks(done); n < g.Calendar.WeekCount {
			return models.AccessDecision{
				CanTake:    false,
				ReasonCode: models.ReasonPrerequisiteMissing,
				Message:    fmt.Sprintf("Complete all %d weeks before the mock exam (%d done)", g.Calendar.WeekCount, n),
			}
		}
	}

	return models.AccessDecision{
		CanTake:    true,
		ReasonCode: models.ReasonAllowed,
		Message:    "You may take this test",
	}
}

// WeekProgress derives per-week completion and lock state from history.
// Recomputed on demand, never persisted.
func (g Gate) WeekProgress(history []models.TestAttempt) []models.WeekProgress {
	done := completionByWeek(history)

	weeks := make([]models.WeekProgress, 0, g.Calendar.WeekCount)
	for w := 1; w <= g.Calendar.WeekCount; w++ {
		p := done[w]
		p.Week = w
		p.Unlocked = g.weekUnlocked(done, w)
		weeks = append(weeks, p)
	}
	return weeks
}

// MockUnlocked reports whether the cumulative mock exam is open.
func (g Gate) MockUnlocked(history []models.TestAttempt) bool {
	return g.completedWeeks(completionByWeek(history)) >= g.Calendar.WeekCount
}

func (g Gate) retakeEligible(week int, testType models.TestType) bool {
	return g.RetakeWeek != 0 && week == g.RetakeWeek && testType == g.RetakeTestType
}

func (g Gate) weekUnlocked(done map[int]models.WeekProgress, week int) bool {
	if week <= 1 {
		return true
	}
	prev := done[week-1]
	return prev.PreCompleted && prev.PostCompleted
}

func (g Gate) completedWeeks(done map[int]models.WeekProgress) int {
	n := 0
	for w := 1; w <= g.Calendar.WeekCount; w++ {
		if done[w].PreCompleted && done[w].PostCompleted {
			n++
		}
	}
	return n
}

func hasAttempt(history []models.TestAttempt, week int, testType models.TestType) bool {
	for _, a := range history {
		if a.Week == week && a.TestType == testType {
			return true
		}
	}
	return false
}

func completionByWeek(history []models.TestAttempt) map[int]models.WeekProgress {
	done := make(map[int]models.WeekProgress)
	for _, a := range history {
		p := done[a.Week]
		switch a.TestType {
		case models.TestPre:
			p.PreCompleted = true
		case models.TestPost:
			p.PostCompleted = true
		}
		done[a.Week] = p
	}
	return done
}
