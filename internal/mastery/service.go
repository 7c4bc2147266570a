package mastery

import (
	"context"
	"log"
	"time"

	"github.com/boardprep/backend/internal/models"
	"github.com/boardprep/backend/internal/scorer"
)

// WeakThreshold marks concepts below proficient as needing focused review.
const WeakThreshold = 0.7

type Service struct {
	store   *Store
	params  Params
	sched   Scheduler
	updater scorer.MasteryUpdater
	now     func() time.Time
}

func NewService(store *Store, updater scorer.MasteryUpdater) *Service {
	return &Service{
		store:   store,
		params:  DefaultParams(),
		sched:   NewScheduler(),
		updater: updater,
		now:     time.Now,
	}
}

// RecordOutcome applies one answered question to the student's mastery of a
// concept: BKT update (possibly delegated to the remote scorer, local formula
// on failure), counter increments, and the next review schedule. Atomic per
// (student, concept).
func (s *Service) RecordOutcome(ctx context.Context, studentID, conceptID int64, correct bool) (*models.ConceptMastery, error) {
	now := s.now()

	return s.store.ApplyOutcome(ctx, studentID, conceptID, s.params.Prior, func(m models.ConceptMastery) models.ConceptMastery {
		return s.applyOutcome(ctx, m, correct, now)
	})
}

// applyOutcome merges one answered question into a mastery row: BKT update,
// counters, and the next review schedule. Pure with respect to storage.
func (s *Service) applyOutcome(ctx context.Context, m models.ConceptMastery, correct bool, now time.Time) models.ConceptMastery {
	level, err := s.updater.Update(ctx, m.MasteryLevel, correct)
	if err != nil {
		// Failover already absorbs remote errors; this guards a
		// directly-injected remote updater.
		log.Printf("[mastery] updater failed, using local formula: %v", err)
		level = s.params.Update(m.MasteryLevel, correct)
	}

	review := s.sched.Next(level, m.IntervalDays, m.EaseFactor, now)

	m.MasteryLevel = level
	m.Attempts++
	if correct {
		m.CorrectAttempts++
	}
	m.IntervalDays = review.IntervalDays
	m.EaseFactor = review.EaseFactor
	m.LastReviewed = now
	m.NextReviewDate = review.NextReviewDate
	return m
}

// UpdateMastery is the single-concept API entrypoint.
func (s *Service) UpdateMastery(ctx context.Context, studentID, conceptID int64, correct bool) (*models.UpdateMasteryResponse, error) {
	m, err := s.RecordOutcome(ctx, studentID, conceptID, correct)
	if err != nil {
		return nil, err
	}
	return &models.UpdateMasteryResponse{
		ConceptID:       m.ConceptID,
		MasteryLevel:    m.MasteryLevel,
		MasteryLabel:    Label(m.MasteryLevel),
		Attempts:        m.Attempts,
		CorrectAttempts: m.CorrectAttempts,
		NextReviewDate:  m.NextReviewDate,
	}, nil
}

func (s *Service) Summary(ctx context.Context, studentID int64) (*models.MasterySummaryResponse, error) {
	records, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &models.MasterySummaryResponse{
		Summary:      Summarize(records),
		WeakConcepts: WeakConcepts(records, WeakThreshold),
		AllConcepts:  records,
	}, nil
}

func (s *Service) Due(ctx context.Context, studentID int64, now time.Time) ([]models.DueConcept, error) {
	records, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return DueConcepts(records, now), nil
}
