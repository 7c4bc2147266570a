package mastery

import (
	"math"
	"sort"
	"time"

	"github.com/boardprep/backend/internal/models"
)

// Scheduler computes spaced-repetition intervals from mastery levels,
// SM-2 style: intervals stretch as mastery grows and collapse back toward
// daily review when it drops.
type Scheduler struct {
	MinIntervalDays int
	MaxIntervalDays int
	MinEaseFactor   float64
}

func NewScheduler() Scheduler {
	return Scheduler{
		MinIntervalDays: 1,
		MaxIntervalDays: 365,
		MinEaseFactor:   1.3,
	}
}

// Review is the scheduler's output for one update.
type Review struct {
	IntervalDays   int
	EaseFactor     float64
	NextReviewDate time.Time
}

// Next computes the review that follows an update landing on the given
// mastery level.
func (s Scheduler) Next(mastery float64, priorIntervalDays int, easeFactor float64, now time.Time) Review {
	if priorIntervalDays < s.MinIntervalDays {
		priorIntervalDays = s.MinIntervalDays
	}

	var interval int
	switch {
	case mastery >= 0.9:
		// Long-term retention regime.
		interval = int(math.Round(float64(priorIntervalDays) * 2.5))
		easeFactor += 0.05
	case mastery >= 0.7:
		interval = int(math.Round(float64(priorIntervalDays) * 1.5))
		easeFactor += 0.02
	default:
		// Reset toward frequent review.
		interval = int(math.Round(float64(priorIntervalDays) * 0.5))
		easeFactor -= 0.15
	}

	if interval < s.MinIntervalDays {
		interval = s.MinIntervalDays
	}
	if interval > s.MaxIntervalDays {
		interval = s.MaxIntervalDays
	}
	if easeFactor < s.MinEaseFactor {
		easeFactor = s.MinEaseFactor
	}

	return Review{
		IntervalDays:   interval,
		EaseFactor:     easeFactor,
		NextReviewDate: now.AddDate(0, 0, interval),
	}
}

// DueConcepts filters records whose review date has passed, most overdue
// first, weakest mastery breaking ties.
func DueConcepts(records []models.ConceptMastery, now time.Time) []models.DueConcept {
	var due []models.DueConcept
	for _, r := range records {
		if r.NextReviewDate.After(now) {
			continue
		}
		due = append(due, models.DueConcept{
			ConceptID:      r.ConceptID,
			MasteryLevel:   r.MasteryLevel,
			NextReviewDate: r.NextReviewDate,
			DaysOverdue:    int(now.Sub(r.NextReviewDate).Hours() / 24),
		})
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].DaysOverdue != due[j].DaysOverdue {
			return due[i].DaysOverdue > due[j].DaysOverdue
		}
		return due[i].MasteryLevel < due[j].MasteryLevel
	})
	return due
}
