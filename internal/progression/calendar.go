package progression

import (
	"math"
	"time"
)

// Calendar pins the review program to real dates. It is an injected value,
// not ambient state, so tests can supply arbitrary calendars.
type Calendar struct {
	StartDate time.Time
	WeekCount int
	ExamDate  time.Time
}

// CurrentWeek returns the 1-based curriculum week containing now, clamped to
// [1, WeekCount]. Days before the program starts count as week 1.
func (c Calendar) CurrentWeek(now time.Time) int {
	if !now.After(c.StartDate) {
		return 1
	}
	week := int(now.Sub(c.StartDate).Hours()/(24*7)) + 1
	if week > c.WeekCount {
		return c.WeekCount
	}
	return week
}

// WeeksUntilExam returns the number of weeks remaining before the board exam,
// rounded up. Zero once the exam date has passed.
func (c Calendar) WeeksUntilExam(now time.Time) int {
	if !c.ExamDate.After(now) {
		return 0
	}
	days := c.ExamDate.Sub(now).Hours() / 24
	return int(math.Ceil(days / 7))
}
